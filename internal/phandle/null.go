package phandle

import "os"

// OpenNull opens the platform null device (os.DevNull: "/dev/null" on
// Unix, "NUL" on Windows) read-write, for use as a spawn endpoint when
// a stream should be discarded without a user-space copy.
func OpenNull() (h *OwnedHandle, err error) {
	var f *os.File
	if f, err = os.OpenFile(os.DevNull, os.O_RDWR, 0); err != nil {
		return
	}
	h = NewOwnedHandle(f)
	return
}
