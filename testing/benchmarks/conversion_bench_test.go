package benchmarks

import (
	"context"
	"strings"
	"testing"

	"github.com/zoobzio/cnv"
	"github.com/zoobzio/cnv/codepage"
	cnvtest "github.com/zoobzio/cnv/testing"
)

var text = strings.Repeat(cnvtest.Sample+" ", 64)

func BenchmarkDecode_UTF8(b *testing.B) {
	c := cnvtest.MustOpen(b, codepage.Default(), codepage.UTF8)
	src := []byte(text)
	dst := make([]uint16, len(src))

	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.DecodeAll(dst, src)
	}
}

func BenchmarkEncode_UTF16BE(b *testing.B) {
	c := cnvtest.MustOpen(b, codepage.Default(), codepage.UTF16BE)
	src := cnvtest.Units(text)
	dst := make([]byte, 4*len(src))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.EncodeAll(dst, src)
	}
}

func BenchmarkDecode_ShiftJIS(b *testing.B) {
	reg := codepage.Default()
	src := cnvtest.EncodeChunked(b, cnvtest.MustOpen(b, reg, codepage.ShiftJIS),
		cnvtest.Units(strings.Repeat("日本語のテキスト", 128)), 1024, 4096)
	c := cnvtest.MustOpen(b, reg, codepage.ShiftJIS)
	dst := make([]uint16, len(src))

	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.DecodeAll(dst, src)
	}
}

func BenchmarkEncode_StatefulEBCDIC(b *testing.B) {
	c := cnvtest.MustOpen(b, codepage.Default(), codepage.IBM037KSC)
	src := cnvtest.Units(strings.Repeat("ABC 안녕하세요 ", 128))
	dst := make([]byte, 4*len(src))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.EncodeAll(dst, src)
	}
}

func BenchmarkConvert_UTF8ToEUCKR(b *testing.B) {
	reg := codepage.Default()
	src := []byte(strings.Repeat("hello 안녕하세요 ", 128))
	dst := make([]byte, len(src))
	ctx := context.Background()

	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Convert(ctx, codepage.EUCKR, codepage.UTF8, dst, src)
	}
}

func BenchmarkOpenClose(b *testing.B) {
	reg := codepage.Default()
	cnvtest.MustOpen(b, reg, codepage.Windows1252)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := reg.Open("cp1252")
		if err != nil {
			b.Fatal(err)
		}
		c.Close()
	}
}

func BenchmarkPipeline_SmallWindows(b *testing.B) {
	reg := codepage.Default()
	src := []byte(text)
	from := cnvtest.MustOpen(b, reg, codepage.UTF8)
	to := cnvtest.MustOpen(b, reg, codepage.UTF16LE)
	p, err := cnv.NewPipeline(from, to, 64)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Reset()
		cnvtest.ConvertChunked(b, p, src, 256, 128)
	}
}
