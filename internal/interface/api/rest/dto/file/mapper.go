package file

import (
	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
)

// ToResponseFile leaves out the storage path and share token.
func ToResponseFile(fDomain file.File) File {
	return File{
		ID:          fDomain.ID,
		Name:        fDomain.Name,
		ContentType: fDomain.ContentType,
		SizeBytes:   fDomain.SizeBytes,
		IsPublic:    fDomain.IsPublic,
		CreatedAt:   fDomain.CreatedAt,
	}
}

func ToResponseListings(lsDomain file.Listings) Listings {
	ls := make(Listings, len(lsDomain))
	for idx, l := range lsDomain {
		ls[idx] = Listing{File: ToResponseFile(*l.File)}
		if l.PreviewURL != "" {
			u, exp := l.PreviewURL, l.PreviewExpiresAt
			ls[idx].PreviewURL = &u
			ls[idx].PreviewExpiresAt = &exp
		}
	}

	return ls
}

func ToResponseUploadTarget(t file.UploadTarget) UploadTarget {
	return UploadTarget{Path: t.Path, URL: t.URL, ExpiresAt: t.ExpiresAt}
}

func ToResponseUsage(u file.Usage) Usage {
	return Usage{Used: u.Used, All: u.All}
}

func ToResponseSignedURL(s access.SignedURL) SignedURL {
	out := SignedURL{URL: s.URL, ExpiresAt: s.ExpiresAt}
	if s.File != nil {
		out.Name = s.File.Name
		out.SizeBytes = s.File.SizeBytes
		out.ContentType = s.File.ContentType
	}
	return out
}

func ToDomainFile(r CreateRequest) file.File {
	return file.File{
		StoragePath: r.Path,
		Name:        r.Name,
		ContentType: r.ContentType,
		SizeBytes:   r.Size,
	}
}
