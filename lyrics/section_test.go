package lyrics

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"olc/common"
)

func TestDecodeSection(t *testing.T) {
	codec := NewCodec(zaptest.NewLogger(t))
	raw := RawSection{
		Name:     "v1",
		Lang:     "en",
		Translit: "ru",
		Break:    "optional",
		Lines: []RawLine{
			{Content: `<chord root="G"/>Amazing grace`, Part: "men", Repeat: "2"},
			{Content: "", Break: "optional"},
			{Content: "x", Repeat: "often"},
		},
	}

	sec, err := codec.DecodeSection(raw, SectionVerse)
	if err != nil {
		t.Fatalf("DecodeSection error: %v", err)
	}
	want := Section{
		Kind:            SectionVerse,
		Name:            "v1",
		Lang:            "en",
		Transliteration: "ru",
		OptionalBreak:   true,
		Lines: []Line{
			{Part: "men", Repeat: 2, Content: []ContentItem{ChordItem(Chord{Root: "G"}), Text("Amazing grace")}},
			{OptionalBreak: true, Content: []ContentItem{Text("")}},
			{Content: []ContentItem{Text("x")}},
		},
	}
	if !reflect.DeepEqual(sec, want) {
		t.Fatalf("DecodeSection\n got: %#v\nwant: %#v", sec, want)
	}

	back := codec.EncodeSection(sec)
	if back.Name != "v1" || back.Break != "optional" || back.Lang != "en" || back.Translit != "ru" {
		t.Fatalf("EncodeSection lost section attributes: %#v", back)
	}
	if back.Lines[0].Part != "men" || back.Lines[0].Repeat != "2" || back.Lines[1].Break != "optional" {
		t.Fatalf("EncodeSection lost line attributes: %#v", back.Lines)
	}
	if back.Lines[0].Content != `<chord root="G"/>Amazing grace` {
		t.Fatalf("EncodeSection content = %q", back.Lines[0].Content)
	}
}

func TestDecodeSectionFailMode(t *testing.T) {
	codec := NewCodec(zaptest.NewLogger(t))
	raw := RawSection{Name: "v2", Lines: []RawLine{{Content: "fine"}, {Content: "<comment>broken"}}}

	_, err := codec.DecodeSection(raw, SectionVerse)
	if !errors.Is(err, ErrMalformedInlineMarkup) {
		t.Fatalf("expected ErrMalformedInlineMarkup, got %v", err)
	}
	var lerr *LineError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *LineError, got %T", err)
	}
	if lerr.Section != "v2" || lerr.Line != 2 || lerr.Raw != "<comment>broken" || lerr.Kind != SectionVerse {
		t.Fatalf("unexpected line error: %#v", lerr)
	}
}

func TestDecodeSectionPlaceholderMode(t *testing.T) {
	codec := NewCodec(zaptest.NewLogger(t), WithRecovery(common.RecoveryModePlaceholder))
	raw := RawSection{Name: "i1", Lines: []RawLine{
		{Content: "<comment>not here</comment>"},
		{Content: `<chord root="C"/>`},
		{Content: `<chord root="C">`},
	}}

	sec, err := codec.DecodeSection(raw, SectionInstrument)
	if err == nil {
		t.Fatal("expected errors describing bad lines")
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 line errors, got %d: %v", len(errs), err)
	}
	if !errors.Is(errs[0], ErrDisallowedContentKind) || !errors.Is(errs[1], ErrMalformedInlineMarkup) {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sec.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(sec.Lines))
	}
	if got := sec.Lines[0].Content; !reflect.DeepEqual(got, []ContentItem{Text("<comment>not here</comment>")}) {
		t.Fatalf("bad line not replaced by raw text: %#v", got)
	}
	if got := sec.Lines[1].Content; !reflect.DeepEqual(got, []ContentItem{ChordItem(Chord{Root: "C"})}) {
		t.Fatalf("good line damaged: %#v", got)
	}
}

func TestDecodeSectionsKeepsOrder(t *testing.T) {
	codec := NewCodec(zaptest.NewLogger(t), WithWorkers(4))
	raws := make([]RawSection, 25)
	for i := range raws {
		raws[i] = RawSection{Name: fmt.Sprintf("v%d", i+1), Lines: []RawLine{{Content: fmt.Sprintf("line %d", i+1)}}}
	}

	secs, err := codec.DecodeSections(raws, SectionVerse)
	if err != nil {
		t.Fatalf("DecodeSections error: %v", err)
	}
	if len(secs) != len(raws) {
		t.Fatalf("expected %d sections, got %d", len(raws), len(secs))
	}
	for i, sec := range secs {
		if sec.Name != raws[i].Name {
			t.Fatalf("section %d name = %q, want %q", i, sec.Name, raws[i].Name)
		}
		if got := sec.Lines[0].AsPlainText(); got != fmt.Sprintf("line %d", i+1) {
			t.Fatalf("section %d text = %q", i, got)
		}
	}
}

func TestDecodeSectionsFailModeReportsEarliest(t *testing.T) {
	codec := NewCodec(zaptest.NewLogger(t), WithWorkers(3))
	raws := []RawSection{
		{Name: "v1", Lines: []RawLine{{Content: "ok"}}},
		{Name: "v2", Lines: []RawLine{{Content: "<beat></beat>"}}},
		{Name: "v3", Lines: []RawLine{{Content: "<tag>"}}},
	}

	secs, err := codec.DecodeSections(raws, SectionVerse)
	if secs != nil {
		t.Fatalf("expected no sections in fail mode, got %d", len(secs))
	}
	var lerr *LineError
	if !errors.As(err, &lerr) || lerr.Section != "v2" {
		t.Fatalf("expected error from v2, got %v", err)
	}
}

func TestSameNameSectionsStayDistinct(t *testing.T) {
	codec := NewCodec(zaptest.NewLogger(t))
	raws := []RawSection{
		{Name: "v1", Lang: "en", Lines: []RawLine{{Content: "Amazing grace"}}},
		{Name: "v1", Lang: "de", Lines: []RawLine{{Content: "Erstaunliche Gnade"}}},
	}
	secs, err := codec.DecodeSections(raws, SectionVerse)
	if err != nil {
		t.Fatalf("DecodeSections error: %v", err)
	}
	if len(secs) != 2 || secs[0].Lang != "en" || secs[1].Lang != "de" {
		t.Fatalf("sections merged or reordered: %#v", secs)
	}
}
