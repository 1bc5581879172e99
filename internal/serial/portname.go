package serial

import "strconv"

// normalizePortName applies the reference implementation's COM-port
// long-name rule: a COMn name with n >= 8, or longer than 4 characters, is
// rewritten to \\.\<name> so the OS open call isn't subject to the legacy
// short-name length limit. The rule only fires for names that actually look
// like a Windows COM port (COM<digits>); a /dev/tty* path is never a COM
// name, so it passes through untouched — applying the length clause
// unconditionally would mangle every real Linux device path, since those
// are always longer than 4 characters.
func normalizePortName(name string) string {
	n, ok := comPortNumber(name)
	if !ok {
		return name
	}
	if len(name) > 4 || n >= 8 {
		return `\\.\` + name
	}
	return name
}

func comPortNumber(name string) (int, bool) {
	if len(name) < 4 || name[:3] != "COM" {
		return 0, false
	}
	n, err := strconv.Atoi(name[3:])
	if err != nil {
		return 0, false
	}
	return n, true
}
