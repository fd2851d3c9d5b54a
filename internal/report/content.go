package report

// Kind classifies the shape of an inbound message as far as reports care.
type Kind int

const (
	// KindText is a plain text message.
	KindText Kind = iota
	// KindCaptionedMedia is a photo or video carrying a caption.
	KindCaptionedMedia
	// KindUncaptionedMedia is a photo or video with no caption.
	KindUncaptionedMedia
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCaptionedMedia:
		return "captioned_media"
	case KindUncaptionedMedia:
		return "uncaptioned_media"
	default:
		return "unknown"
	}
}

// Content is the report-relevant part of a message: its kind plus the text
// or caption it carried.
type Content struct {
	Kind Kind
	Text string
}

// TextContent returns the content of a text message.
func TextContent(text string) Content {
	return Content{Kind: KindText, Text: text}
}

// MediaContent returns the content of a photo or video message. An empty
// caption yields KindUncaptionedMedia.
func MediaContent(caption string) Content {
	if caption == "" {
		return Content{Kind: KindUncaptionedMedia}
	}
	return Content{Kind: KindCaptionedMedia, Text: caption}
}

// ReportText returns the text to parse as a report, or false when the
// message carries nothing usable.
func (c Content) ReportText() (string, bool) {
	switch c.Kind {
	case KindText, KindCaptionedMedia:
		if c.Text == "" {
			return "", false
		}
		return c.Text, true
	default:
		return "", false
	}
}
