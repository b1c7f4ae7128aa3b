package inbox

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"interview-engine/internal/domain"
)

const (
	maxBodyBytes = 25 << 20
	maxPartBytes = 6 << 20
)

// ParseMessage turns raw RFC822 bytes into an Email. Unparseable input is
// treated as a plain-text body.
func ParseMessage(raw []byte) domain.Email {
	var e domain.Email
	if len(raw) == 0 {
		return e
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		e.Body = collapse(string(raw))
		e.Snippet = clip(e.Body, SnippetLen)
		e.MessageID = "sha1:" + hashString(string(raw))
		return e
	}

	h := msg.Header
	e.MessageID = strings.Trim(strings.TrimSpace(h.Get("Message-Id")), "<>")
	e.Subject = decodeRFC2047(h.Get("Subject"))
	e.From = decodeRFC2047(h.Get("From"))
	if ds := h.Get("Date"); ds != "" {
		if t, err := mail.ParseDate(ds); err == nil {
			e.Date = t
		}
	}

	bodyRaw, _ := io.ReadAll(io.LimitReader(msg.Body, maxBodyBytes))
	plain, htmlPart := extractMIMETextParts(h, bodyRaw)
	e.Body = BodyText(plain, htmlPart)
	if e.Body == "" && plain == "" && htmlPart == "" {
		e.Body = collapse(string(bodyRaw))
	}
	e.Snippet = clip(e.Body, SnippetLen)

	if e.MessageID == "" {
		e.MessageID = "sha1:" + hashString(e.From+"\x00"+e.Subject+"\x00"+h.Get("Date"))
	}
	return e
}

// BodyText prefers the plain part and falls back to the HTML part
// rendered as text.
func BodyText(plain, htmlBody string) string {
	if p := collapse(plain); p != "" {
		return p
	}
	if htmlBody == "" {
		return ""
	}
	return HTMLToText(htmlBody)
}

var blockTags = "br,p,div,li,tr,td,th,h1,h2,h3,h4,h5,h6,table,section,blockquote"

// HTMLToText strips markup, scripts and styles and collapses whitespace.
func HTMLToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}
	doc.Find("script,style,noscript,head,title").Remove()
	// keep words in adjacent blocks apart
	doc.Find(blockTags).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return collapse(doc.Text())
}

func extractMIMETextParts(h mail.Header, body []byte) (plain, htmlPart string) {
	ct := h.Get("Content-Type")
	cte := strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding")))

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return string(decodeTransferEncoding(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if !strings.HasPrefix(mediaType, "multipart/") {
		s := string(decodeTransferEncoding(body, cte))
		if strings.HasPrefix(mediaType, "text/html") {
			return "", s
		}
		return s, ""
	}

	boundary := params["boundary"]
	if boundary == "" {
		return string(decodeTransferEncoding(body, cte)), ""
	}

	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		p, err := mr.NextPart()
		if err != nil {
			break
		}
		partCTE := strings.ToLower(strings.TrimSpace(p.Header.Get("Content-Transfer-Encoding")))
		pMedia, _, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
		pMedia = strings.ToLower(pMedia)

		// attachments never feed the classifier
		if disp, _, _ := mime.ParseMediaType(p.Header.Get("Content-Disposition")); disp == "attachment" {
			continue
		}

		b, _ := io.ReadAll(io.LimitReader(p, maxBodyBytes))

		if strings.HasPrefix(pMedia, "multipart/") {
			pl, ht := extractMIMETextParts(mail.Header(p.Header), b)
			if len(pl) > len(plain) {
				plain = pl
			}
			if len(ht) > len(htmlPart) {
				htmlPart = ht
			}
			continue
		}

		b = decodeTransferEncoding(b, partCTE)
		switch {
		case strings.HasPrefix(pMedia, "text/plain"), pMedia == "":
			if len(b) > len(plain) {
				plain = string(b)
			}
		case strings.HasPrefix(pMedia, "text/html"):
			if len(b) > len(htmlPart) {
				htmlPart = string(b)
			}
		}
	}
	return plain, htmlPart
}

func decodeTransferEncoding(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(bytes.TrimSpace(b)))
		out, _ := io.ReadAll(io.LimitReader(dec, maxPartBytes))
		return out
	case "quoted-printable":
		dec := quotedprintable.NewReader(bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, maxPartBytes))
		return out
	default:
		return b
	}
}

func decodeRFC2047(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	dec := new(mime.WordDecoder)
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// clip cuts s to at most max bytes without splitting a rune.
func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
