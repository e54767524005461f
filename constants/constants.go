package constants

import (
	"os"
	"time"
)

func GetPort() string {
	return getenv("PORT", ":8080")
}

func GetDynamoEndpoint() string {
	return getenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
}

func GetDynamoRegion() string {
	return getenv("DYNAMODB_REGION", "localhost")
}

func GetProgressionsTable() string {
	return getenv("PROGRESSIONS_TABLE", "keyquest-progressions")
}

// GetStoreBackend is "memory" or "dynamodb".
func GetStoreBackend() string {
	return getenv("STORE_BACKEND", "memory")
}

func GetLogLevel() string {
	return getenv("LOG_LEVEL", "info")
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// AdvanceDebounce is how long a matching chord has to be held before the
// progression moves on.
const AdvanceDebounce = 500 * time.Millisecond

// DisplayDebounce coalesces detection output on the console.
const DisplayDebounce = 50 * time.Millisecond

const SaveTimeout = 5 * time.Second

const SuggestionLimit = 5

const ProgressionVersion = "1.0.0"

const MaxProgressionName = 100

// TicksPerQuarter and DefaultBPM are used for standard MIDI file export.
const TicksPerQuarter = 960

const DefaultBPM = 120.0
