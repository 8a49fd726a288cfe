package document

import (
	"sort"

	"github.com/samepage-network/obsidian-samepage"
)

func malformed(msg string, params ...any) error {
	return samepage.FormatError(MalformedDocumentError, "malformed document: "+msg, params...)
}

// Validate checks annotation offsets, block attributes, and that blocks tile the whole content
// with every other annotation inside one block.
func Validate(d Document) error {
	length := d.Len()
	var blocks []Annotation
	for i, a := range d.Annotations {
		if a.Attributes == nil {
			return malformed("annotation #%d has no attributes", i)
		}
		if a.Start < 0 || a.Start > a.End || a.End > length {
			return malformed("annotation #%d (%s) range [%d, %d) is out of [0, %d)", i, a.Type(), a.Start, a.End, length)
		}
		if b, f := a.Attributes.(Block); f {
			if b.Level < 1 {
				return malformed("block #%d has level %d", i, b.Level)
			}
			switch b.ViewType {
			case DocumentView, BulletView, NumberedView:
			default:
				return malformed("block #%d has view type %q", i, b.ViewType)
			}
			blocks = append(blocks, a)
		}
	}

	if len(blocks) == 0 {
		if length > 0 {
			return malformed("no blocks")
		}
		return nil
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start < blocks[j].Start
	})
	pos := 0
	for _, b := range blocks {
		if b.Start != pos {
			return malformed("blocks do not tile content at %d", pos)
		}
		pos = b.End
	}
	if pos != length {
		return malformed("blocks end at %d, content length is %d", pos, length)
	}

	for i, a := range d.Annotations {
		if a.Type() == BlockType {
			continue
		}
		j := sort.Search(len(blocks), func(k int) bool {
			return blocks[k].End >= a.End
		})
		if j == len(blocks) || blocks[j].Start > a.Start {
			return malformed("annotation #%d (%s) [%d, %d) crosses block boundary", i, a.Type(), a.Start, a.End)
		}
	}
	return nil
}
