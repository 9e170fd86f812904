package lyrics

import (
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"olc/common"
)

// RawLine is a <lines> element as found in the document: attributes and
// inner markup untouched.
type RawLine struct {
	Content string
	Part    string
	Break   string
	Repeat  string
}

// RawSection is a <verse> or <instrument> element as found in the document.
type RawSection struct {
	Name     string
	Lang     string
	Translit string
	Break    string
	Lines    []RawLine
}

const optionalBreak = "optional"

// checkKind enforces what each section kind may contain. Verses take
// anything but beats, instruments take only chords and beats (and empty
// text standing for an empty line).
func checkKind(item ContentKind, section SectionKind) error {
	switch section {
	case SectionInstrument:
		if item == ContentComment || item == ContentTag {
			return disallowed(item, section)
		}
	default:
		if item == ContentBeat {
			return disallowed(item, section)
		}
	}
	return nil
}

// DecodeSection decodes every line of a section. In fail mode first bad
// line aborts decoding. In placeholder mode bad lines are replaced by their
// raw markup as text and all problems are returned together with the
// section.
func (c *Codec) DecodeSection(raw RawSection, kind SectionKind) (Section, error) {
	sec := Section{
		Kind:            kind,
		Name:            raw.Name,
		Lang:            raw.Lang,
		Transliteration: raw.Translit,
		OptionalBreak:   raw.Break == optionalBreak,
		Lines:           make([]Line, 0, len(raw.Lines)),
	}

	var errs error
	for i, rl := range raw.Lines {
		content, err := c.DecodeLine(rl.Content, kind)
		if err != nil {
			lerr := &LineError{Section: raw.Name, Kind: kind, Line: i + 1, Raw: rl.Content, Err: err}
			if c.recovery == common.RecoveryModeFail {
				return Section{}, lerr
			}
			c.log.Warn("Unable to decode line, keeping raw markup as text", zap.Error(lerr))
			content = []ContentItem{Text(rl.Content)}
			errs = multierr.Append(errs, lerr)
		}
		sec.Lines = append(sec.Lines, Line{
			Part:          rl.Part,
			OptionalBreak: rl.Break == optionalBreak,
			Repeat:        c.parseRepeat(rl.Repeat),
			Content:       content,
		})
	}
	return sec, errs
}

func (c *Codec) parseRepeat(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		c.log.Warn("Unexpected repeat value, ignoring", zap.String("repeat", s))
		return 0
	}
	return n
}

// EncodeSection renders every line of a section. Section without kind is
// treated as a verse.
func (c *Codec) EncodeSection(sec Section) RawSection {
	kind := sec.Kind
	if kind == "" {
		kind = SectionVerse
	}
	raw := RawSection{
		Name:     sec.Name,
		Lang:     sec.Lang,
		Translit: sec.Transliteration,
		Lines:    make([]RawLine, 0, len(sec.Lines)),
	}
	if sec.OptionalBreak {
		raw.Break = optionalBreak
	}
	for i := range sec.Lines {
		l := &sec.Lines[i]
		rl := RawLine{
			Content: c.EncodeLine(l.Content, kind),
			Part:    l.Part,
		}
		if l.OptionalBreak {
			rl.Break = optionalBreak
		}
		if l.Repeat > 0 {
			rl.Repeat = strconv.Itoa(l.Repeat)
		}
		raw.Lines = append(raw.Lines, rl)
	}
	return raw
}

// DecodeSections decodes sections of the same kind in parallel, results
// keep source order. Error reporting follows DecodeSection, in fail mode
// error of the earliest failing section is returned.
func (c *Codec) DecodeSections(raws []RawSection, kind SectionKind) ([]Section, error) {
	out := make([]Section, len(raws))
	errs := make([]error, len(raws))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i := range raws {
		g.Go(func() error {
			out[i], errs[i] = c.DecodeSection(raws[i], kind)
			return nil
		})
	}
	_ = g.Wait()

	if c.recovery == common.RecoveryModeFail {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return out, multierr.Combine(errs...)
}
