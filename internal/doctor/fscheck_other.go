//go:build !darwin && !linux

package doctor

import "fmt"

func detectMount(path string) (mountInfo, error) {
	return mountInfo{}, fmt.Errorf("filesystem detection is unsupported on this platform")
}
