package doctor

import "strings"

var networkFilesystems = map[string]struct{}{
	"afpfs":  {},
	"cifs":   {},
	"nfs":    {},
	"smbfs":  {},
	"smb2":   {},
	"webdav": {},
}

// mountInfo describes the filesystem a binary lives on.
type mountInfo struct {
	FSType string
	NoExec bool
}

// mountDetector inspects the filesystem holding path.
type mountDetector func(path string) (mountInfo, error)

func isNetworkFilesystem(fsType string) bool {
	normalized := strings.TrimSpace(strings.ToLower(fsType))
	_, found := networkFilesystems[normalized]
	return found
}
