package file

import "time"

type (
	// Listing is a file plus a short-lived preview URL. PreviewURL is empty
	// when minting failed; the file is still listed.
	Listing struct {
		File             *File
		PreviewURL       string
		PreviewExpiresAt time.Time
	}
	Listings []*Listing

	Usage struct {
		Used int64
		All  int64
	}

	// UploadTarget is a presigned PUT the client uploads to directly before
	// recording the file.
	UploadTarget struct {
		Path      string
		URL       string
		ExpiresAt time.Time
	}
)
