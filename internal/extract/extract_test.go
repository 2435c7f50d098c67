package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

func buildZip(t *testing.T, name, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Senior   Go engineer</w:t></w:r></w:p></w:body>
</w:document>`

func TestTextDOCXFromZipMime(t *testing.T) {
	data := buildZip(t, "word/document.xml", documentXML)

	text, err := Text(context.Background(), data, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Jane Doe\nSenior Go engineer" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestTextDOCXDetectedFromContent(t *testing.T) {
	data := buildZip(t, "word/document.xml", documentXML)
	if got := DetectMimeType("", "upload.bin", data); got != MimeDOCX {
		t.Fatalf("expected docx, got %s", got)
	}
}

func TestTextPlain(t *testing.T) {
	text, err := Text(context.Background(), []byte("  Skills:\tGo,  SQL \r\n\r\n\r\nBio: builder\n"), "", "resume.txt")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Skills: Go, SQL\n\nBio: builder" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestTextRejectsPlainZip(t *testing.T) {
	data := buildZip(t, "notes.txt", "hello")

	_, err := Text(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTextEmpty(t *testing.T) {
	_, err := Text(context.Background(), []byte(" \n\t"), MimePlain, "")
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestTextInvalidPDF(t *testing.T) {
	_, err := Text(context.Background(), []byte("%PDF-1.4 not really"), MimePDF, "resume.pdf")
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}

func TestTextHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, []byte("hi"), MimePlain, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
