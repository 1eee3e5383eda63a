package export

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fieldline/fieldline/backend-go/internal/document"
)

func TestBuildSchema(t *testing.T) {
	doc := &document.Document{
		Version:  document.FormatVersion,
		SourceID: "doc_lease",
		Pages:    []document.PageGeometry{{Width: 612, Height: 792}, {Width: 612, Height: 792}},
		Areas: []document.Area{
			{
				InstanceID: "area_1",
				PageIndex:  1,
				Rect:       document.Rect{Left: 72, Top: 600, Right: 312, Bottom: 660},
				Kind:       document.KindSignatureField,
				FieldID:    "SignatureArea_1",
				Prompt:     "Sign here",
				Style:      document.DefaultStyle(document.KindSignatureField),
			},
			{
				InstanceID: "area_2",
				PageIndex:  0,
				Rect:       document.Rect{Left: 10, Top: 10, Right: 110, Bottom: 60},
				Kind:       document.KindTextField,
				FieldID:    "FullName",
				Style:      document.DefaultStyle(document.KindTextField),
			},
			{
				InstanceID: "area_3",
				PageIndex:  0,
				Rect:       document.Rect{Left: 60, Top: 320, Right: 552, Bottom: 470},
				Kind:       document.KindDrawnRect,
				FieldID:    "area_3",
				Style:      document.DefaultStyle(document.KindDrawnRect),
			},
		},
	}

	want := Schema{
		Version:   document.FormatVersion,
		SourceID:  "doc_lease",
		PageCount: 2,
		Fields: []SchemaField{
			{
				FieldID:   "SignatureArea_1",
				Kind:      document.KindSignatureField,
				PageIndex: 1,
				Rect:      document.Rect{Left: 72, Top: 600, Right: 312, Bottom: 660},
				Prompt:    "Sign here",
			},
			{
				FieldID:   "FullName",
				Kind:      document.KindTextField,
				PageIndex: 0,
				Rect:      document.Rect{Left: 10, Top: 10, Right: 110, Bottom: 60},
			},
			{
				FieldID:   "area_3",
				Kind:      document.KindDrawnRect,
				PageIndex: 0,
				Rect:      document.Rect{Left: 60, Top: 320, Right: 552, Bottom: 470},
			},
		},
	}

	got := BuildSchema(doc)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildSchema mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSchemaEmptyDocument(t *testing.T) {
	got := BuildSchema(document.New("blank.pdf", nil))
	if got.PageCount != 0 {
		t.Errorf("PageCount = %d, want 0", got.PageCount)
	}
	if got.Fields == nil || len(got.Fields) != 0 {
		t.Errorf("Fields = %#v, want empty non-nil slice", got.Fields)
	}
}
