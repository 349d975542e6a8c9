package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomz197/sheeraroids/internal/physics"
)

func TestDrawLineScales(t *testing.T) {
	// 10 columns by 5 rows gives 10x10 sub-pixels over a 100x100 arena.
	c := NewScaledCanvas(10, 5, 100, 100)
	c.DrawLine(physics.Vec2{X: 0, Y: 0}, physics.Vec2{X: 90, Y: 0})

	for x := 0; x <= 9; x++ {
		if !c.Pixel(x, 0) {
			t.Errorf("pixel (%d,0) not set", x)
		}
	}
	if c.Pixel(0, 1) {
		t.Error("line bled into the next row")
	}
}

func TestDrawPolygonFilled(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	square := []physics.Vec2{{X: 2, Y: 2}, {X: 7, Y: 2}, {X: 7, Y: 7}, {X: 2, Y: 7}}
	c.DrawPolygon(square, true)

	if !c.Pixel(4, 4) {
		t.Error("interior not filled")
	}
	if c.Pixel(0, 0) || c.Pixel(9, 9) {
		t.Error("fill leaked outside the polygon")
	}
}

func TestDrawCircleStaysOnRing(t *testing.T) {
	c := NewScaledCanvas(40, 20, 40, 40)
	center := physics.Vec2{X: 20, Y: 20}
	c.DrawCircle(center, 10)

	if c.Pixel(20, 20) {
		t.Error("outline should not touch the center")
	}
	if !c.Pixel(30, 20) {
		t.Error("rightmost point of the ring missing")
	}
}

func TestRenderOnlyEmitsChanges(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	c := NewScaledCanvas(4, 2, 4, 4)

	c.SetFloat(1, 0)
	c.Render(cw)
	first := cw.Pending()
	if strings.Count(first, string(BlockUpperHalf)) != 1 {
		t.Fatalf("first frame = %q", first)
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	// Same frame again: nothing to send.
	c.Clear()
	c.SetFloat(1, 0)
	c.Render(cw)
	if cw.Pending() != "" {
		t.Errorf("unchanged frame emitted %q", cw.Pending())
	}

	// Pixel gone: the cell is blanked.
	c.Clear()
	c.Render(cw)
	if got := cw.Pending(); got != "\033[1;2H " {
		t.Errorf("cleared cell emitted %q", got)
	}
}

func TestMarkTextDirtyRepaints(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	c := NewScaledCanvas(4, 2, 4, 4)
	c.Render(cw)
	cw.Flush()

	c.MarkTextDirty(2, 2, 2)
	c.Render(cw)
	if got := cw.Pending(); got != "\033[2;2H \033[2;3H " {
		t.Errorf("dirty text cells emitted %q", got)
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 1)
	cw.WriteAt(1, 1, "hi")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\033[2;4Hhi" {
		t.Errorf("output = %q", out.String())
	}
}

func TestChunkWriterKeepsRunesWhole(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	text := strings.Repeat("█", maxChunkSize)
	cw.WriteString(text)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != text {
		t.Error("flushed output differs from input")
	}
}
