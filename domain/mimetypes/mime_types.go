package mimetypes

import (
	"mime"
	"strings"
)

type MIME string

const (
	Unknown     MIME = "unknown"
	OctetStream MIME = "application/octet-stream"

	ApplicationPDF MIME = "application/pdf"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWEBP MIME = "image/webp"
	ImageHEIC MIME = "image/heic"

	VideoMP4       MIME = "video/mp4"
	VideoQuickTime MIME = "video/quicktime"
)

// Kind groups MIME types the way a chat bubble renders them.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindFile  Kind = "file"
)

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// ToMIME strips parameters such as charset from a detected type.
func ToMIME(detected string) MIME {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown
	}
	return MIME(mt)
}

func KindOf(m MIME) Kind {
	switch {
	case strings.HasPrefix(string(m), "image/"):
		return KindImage
	case strings.HasPrefix(string(m), "video/"):
		return KindVideo
	default:
		return KindFile
	}
}
