package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatRunStateKey(runID string) string {
	return fmt.Sprintf("run:%s:state", runID)
}

func FormatShopKey(runID string, round int) string {
	return fmt.Sprintf("run:%s:round:%d:shop", runID, round)
}

func FormatPackKey(runID string, round int, itemID string) string {
	return fmt.Sprintf("run:%s:round:%d:pack:%s", runID, round, itemID)
}

// FormatRunPattern matches every key of a run, for cleanup
func FormatRunPattern(runID string) string {
	return fmt.Sprintf("run:%s:*", runID)
}
