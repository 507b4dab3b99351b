//go:build darwin

package doctor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func detectMount(path string) (mountInfo, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return mountInfo{}, fmt.Errorf("statfs %q: %w", path, err)
	}
	return mountInfo{
		FSType: unix.ByteSliceToString(stat.Fstypename[:]),
		NoExec: stat.Flags&unix.MNT_NOEXEC != 0,
	}, nil
}
