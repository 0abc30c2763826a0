package access

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindPreview  Kind = "preview"
	KindDownload Kind = "download"
	// KindDownloadNow is a same-session download fetched by the client right away.
	KindDownloadNow Kind = "download_now"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindPreview, KindDownload, KindDownloadNow:
		return k, nil
	case "":
		return KindPreview, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

type Disposition int

const (
	DispositionInline Disposition = iota
	DispositionAttachment
)

// TTLPolicy maps a kind to the lifetime of the URL minted for it.
type TTLPolicy struct {
	Preview        time.Duration
	Download       time.Duration
	DownloadNow    time.Duration
	PublicPreview  time.Duration
	PublicDownload time.Duration
}

func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Preview:        10 * time.Minute,
		Download:       60 * time.Minute,
		DownloadNow:    5 * time.Minute,
		PublicPreview:  10 * time.Minute,
		PublicDownload: 60 * time.Minute,
	}
}

func (p TTLPolicy) ForIdentity(k Kind) (time.Duration, error) {
	switch k {
	case KindPreview:
		return p.Preview, nil
	case KindDownload:
		return p.Download, nil
	case KindDownloadNow:
		return p.DownloadNow, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, k)
}

// ForToken is the policy of the anonymous route; public downloads are always
// served as attachments.
func (p TTLPolicy) ForToken(k Kind) (time.Duration, Disposition, error) {
	switch k {
	case KindPreview:
		return p.PublicPreview, DispositionInline, nil
	case KindDownload:
		return p.PublicDownload, DispositionAttachment, nil
	}
	return 0, DispositionInline, fmt.Errorf("%w: %q", ErrInvalidKind, k)
}
