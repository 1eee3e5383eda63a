package document

import (
	"github.com/fieldline/fieldline/backend-go/internal/typeid"
)

// NewSampleDocument builds a small two-page agreement layout used by the
// playground and by the wasm build when no project is open. Pages are US
// Letter (612x792 points).
func NewSampleDocument() *Document {
	letter := PageGeometry{Width: 612, Height: 792}

	nameID := typeid.NewAreaID()
	signatureID := typeid.NewAreaID()
	initialsID := typeid.NewAreaID()
	highlightID := typeid.NewAreaID()

	return &Document{
		Version:    FormatVersion,
		SourcePath: "sample/agreement.pdf",
		Zoom:       1.5,
		Pages:      []PageGeometry{letter, letter},
		Areas: []Area{
			{
				InstanceID: nameID,
				PageIndex:  0,
				Rect:       Rect{Left: 72, Top: 144, Right: 312, Bottom: 168},
				Kind:       KindTextField,
				FieldID:    "FullName",
				Prompt:     "Enter your full legal name",
				Style:      DefaultStyle(KindTextField),
			},
			{
				InstanceID: highlightID,
				PageIndex:  0,
				Rect:       Rect{Left: 60, Top: 320, Right: 552, Bottom: 470},
				Kind:       KindDrawnRect,
				FieldID:    highlightID,
				Style:      DefaultStyle(KindDrawnRect),
			},
			{
				InstanceID: initialsID,
				PageIndex:  0,
				Rect:       Rect{Left: 500, Top: 720, Right: 552, Bottom: 752},
				Kind:       KindInitialsField,
				FieldID:    "InitialsArea_1",
				Style:      DefaultStyle(KindInitialsField),
			},
			{
				InstanceID: signatureID,
				PageIndex:  1,
				Rect:       Rect{Left: 72, Top: 600, Right: 312, Bottom: 660},
				Kind:       KindSignatureField,
				FieldID:    "SignatureArea_1",
				Prompt:     "Sign here",
				Style:      DefaultStyle(KindSignatureField),
			},
		},
	}
}
