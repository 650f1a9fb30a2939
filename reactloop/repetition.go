package reactloop

import (
	"crypto/sha256"
	"fmt"
)

// invocationSignature computes a deterministic signature for a dispatched
// invocation (name + hash of its rendered arguments).
func invocationSignature(name string, args Args) string {
	h := sha256.Sum256([]byte(FormatArgs(args)))
	return fmt.Sprintf("%s:%x", name, h[:8])
}

// DetectRepetition checks whether the last len(sigs) invocations follow a
// repeating pattern of length 1, 2, or 3. sigs must be in chronological
// order and already limited to the detection window.
func DetectRepetition(sigs []string, windowSize int) bool {
	if windowSize <= 0 || len(sigs) < windowSize {
		return false
	}
	sigs = sigs[len(sigs)-windowSize:]

	for patternLen := 1; patternLen <= 3; patternLen++ {
		if windowSize%patternLen != 0 {
			continue
		}
		pattern := sigs[:patternLen]
		allMatch := true
		for i := patternLen; i < windowSize && allMatch; i += patternLen {
			for j := 0; j < patternLen; j++ {
				if sigs[i+j] != pattern[j] {
					allMatch = false
					break
				}
			}
		}
		if allMatch {
			return true
		}
	}
	return false
}
