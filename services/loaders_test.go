package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractTextPlain(t *testing.T) {
	for _, name := range []string{"notes.txt", "README.md", "UPPER.TXT"} {
		text, err := ExtractText(name, []byte("hello world"))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if text != "hello world" {
			t.Fatalf("%s: text = %q", name, text)
		}
	}
}

func TestExtractTextInvalidUTF8(t *testing.T) {
	if _, err := ExtractText("bad.txt", []byte{0xff, 0xfe, 0xfd}); err == nil {
		t.Fatal("invalid UTF-8 must be rejected")
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	if _, err := ExtractText("image.png", []byte("data")); err == nil {
		t.Fatal("unsupported extension must error")
	}
	if _, err := ExtractText("noext", []byte("data")); err == nil {
		t.Fatal("missing extension must error")
	}
}

func TestExtractTextXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "name"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheet, "B1", "role"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheet, "A2", "ada"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheet, "B2", "engineer"); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	text, err := ExtractText("people.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "name\trole") || !strings.Contains(text, "ada\tengineer") {
		t.Fatalf("flattened sheet = %q", text)
	}
}

func TestExtractTextEmptyXLSX(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractText("empty.xlsx", buf.Bytes()); err == nil {
		t.Fatal("empty workbook must report no text extracted")
	}
}
