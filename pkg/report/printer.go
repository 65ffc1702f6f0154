// Package report renders collected ids for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/Sternrassler/naver-folder-client/pkg/folders"
	"github.com/goccy/go-json"
)

// Printer writes result blocks to an output stream.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintShareIDs writes the ids as an indented JSON array followed by the
// summary line.
func (p *Printer) PrintShareIDs(ids []string) error {
	if err := p.writeJSON(ids); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.out, "총 %d개 추출됨\n", len(ids))
	return err
}

// PrintFolderBookmarks writes the folder header, its place ids and a count.
func (p *Printer) PrintFolderBookmarks(resp *folders.BookmarksResponse) error {
	memo := resp.Folder.Memo
	if memo == "" {
		memo = "없음"
	}
	if _, err := fmt.Fprintf(p.out, "폴더명: %s\n메모: %s\n", resp.Folder.Name, memo); err != nil {
		return err
	}

	placeIDs := resp.PlaceIDs()
	if len(placeIDs) == 0 {
		_, err := fmt.Fprintln(p.out, "place 타입 북마크가 없습니다.")
		return err
	}

	if err := p.writeJSON(placeIDs); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.out, "총 북마크 %d건\n", len(placeIDs))
	return err
}

func (p *Printer) writeJSON(ids []string) error {
	if ids == nil {
		ids = []string{}
	}

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ids: %w", err)
	}
	data = append(data, '\n')

	if _, err := p.out.Write(data); err != nil {
		return fmt.Errorf("write ids: %w", err)
	}
	return nil
}
