package im

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	nodePrefixKey  = "NODE_PREFIX"
	backendKey     = "MINCSS_BACKEND"
	invalidUTF8Key = "MINCSS_INVALID_UTF8"
	maxInputKey    = "MINCSS_MAX_INPUT"
	debugKey       = "MINCSS_DEBUG"
	trueStr        = "true"
)

func getNodePrefix() string {
	return os.Getenv(nodePrefixKey)
}

func getBackend() string {
	return strings.TrimSpace(os.Getenv(backendKey))
}

func getInvalidUTF8Policy() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(invalidUTF8Key)))
}

// getMaxInputBytes reports whether the limit is set, and an error if it is
// set to anything but a non-negative integer.
func getMaxInputBytes() (int64, bool, error) {
	raw := strings.TrimSpace(os.Getenv(maxInputKey))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, true, fmt.Errorf("invalid %s %q: must be a non-negative integer", maxInputKey, raw)
	}
	return n, true, nil
}

func GetIsDebug() bool {
	return os.Getenv(debugKey) == trueStr
}
