//go:build linux

package doctor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	linuxNFSMagic  = 0x6969
	linuxCIFSMagic = 0xFF534D42
	linuxSMBMagic  = 0x517B
	linuxSMB2Magic = 0xFE534D42
)

func detectMount(path string) (mountInfo, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return mountInfo{}, fmt.Errorf("statfs %q: %w", path, err)
	}

	info := mountInfo{NoExec: stat.Flags&unix.ST_NOEXEC != 0}
	switch uint64(stat.Type) {
	case linuxNFSMagic:
		info.FSType = "nfs"
	case linuxCIFSMagic:
		info.FSType = "cifs"
	case linuxSMBMagic:
		info.FSType = "smbfs"
	case linuxSMB2Magic:
		info.FSType = "smb2"
	default:
		info.FSType = fmt.Sprintf("0x%x", uint64(stat.Type))
	}
	return info, nil
}
