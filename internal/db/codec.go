package db

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/udisondev/tycoon/internal/engine"
)

// PayloadVersion is the snapshot encoding written by this build.
const PayloadVersion = 1

var (
	encoderOnce sync.Once
	encoder     *zstd.Encoder
	decoderOnce sync.Once
	decoder     *zstd.Decoder
)

// EncodeAll and DecodeAll are safe for concurrent use on a shared coder.
func zstdEncoder() *zstd.Encoder {
	encoderOnce.Do(func() {
		// Only fails on invalid options.
		encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return encoder
}

func zstdDecoder() *zstd.Decoder {
	decoderOnce.Do(func() {
		decoder, _ = zstd.NewReader(nil)
	})
	return decoder
}

// encodeSnapshot serializes snap as zstd-compressed JSON.
func encodeSnapshot(snap engine.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return zstdEncoder().EncodeAll(raw, nil), nil
}

// decodeSnapshot reverses encodeSnapshot for a payload written at version.
func decodeSnapshot(version int, payload []byte) (engine.Snapshot, error) {
	var snap engine.Snapshot
	if version != PayloadVersion {
		return snap, fmt.Errorf("decoding snapshot: unsupported payload version %d", version)
	}

	raw, err := zstdDecoder().DecodeAll(payload, nil)
	if err != nil {
		return snap, fmt.Errorf("decompressing snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}
