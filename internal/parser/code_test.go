package parser

import (
	"testing"

	"github.com/ziadkadry99/blockdex/internal/block"
)

const goSample = `package main

func Foo() int {
	return 1
}

type Bar struct {
	N int
}

func (b Bar) Baz() int {
	return b.N
}
`

func TestCodeParserGoSymbols(t *testing.T) {
	p := NewCodeParser()
	if !p.CanParse("main.go", goSample) {
		t.Fatal("CanParse should accept .go files")
	}
	doc := p.Parse("main.go", goSample, block.FileStats{})

	if err := block.ValidateHierarchy(&doc); err != nil {
		t.Fatalf("ValidateHierarchy: %v", err)
	}
	if doc.Language != "go" {
		t.Errorf("language: got %q, want go", doc.Language)
	}

	foo := findBlock(&doc, block.TypeFunction, "Foo")
	bar := findBlock(&doc, block.TypeClass, "Bar")
	baz := findBlock(&doc, block.TypeMethod, "Baz")
	if foo == nil || bar == nil || baz == nil {
		t.Fatalf("missing symbols: Foo=%v Bar=%v Baz=%v", foo, bar, baz)
	}

	if foo.StartLine != 3 || foo.EndLine != 5 {
		t.Errorf("Foo extent: got %d-%d, want 3-5", foo.StartLine, foo.EndLine)
	}
	if bar.StartLine != 7 || bar.EndLine != 9 {
		t.Errorf("Bar extent: got %d-%d, want 7-9", bar.StartLine, bar.EndLine)
	}
	if baz.StartLine != 11 || baz.EndLine != 13 {
		t.Errorf("Baz extent: got %d-%d, want 11-13", baz.StartLine, baz.EndLine)
	}

	if foo.Metadata == nil || foo.Metadata.Signature != "func Foo() int" {
		t.Errorf("Foo signature: got %+v", foo.Metadata)
	}
	if foo.Metadata.Name != "Foo" {
		t.Errorf("Foo name metadata: got %q", foo.Metadata.Name)
	}
}

const pySample = `class Greeter:
    def hello(self):
        return "hi"

def main():
    pass
`

func TestCodeParserPythonNesting(t *testing.T) {
	doc := NewCodeParser().Parse("app.py", pySample, block.FileStats{})

	greeter := findBlock(&doc, block.TypeClass, "Greeter")
	hello := findBlock(&doc, block.TypeMethod, "hello")
	mainFn := findBlock(&doc, block.TypeFunction, "main")
	if greeter == nil || hello == nil || mainFn == nil {
		t.Fatalf("missing symbols: Greeter=%v hello=%v main=%v", greeter, hello, mainFn)
	}

	// A def inside a class body is a method parented to the class.
	if hello.Parent != greeter.ID {
		t.Errorf("hello parent: got %q, want %q", hello.Parent, greeter.ID)
	}
	if mainFn.Parent != doc.Hierarchy.Root {
		t.Errorf("main parent: got %q, want root", mainFn.Parent)
	}
	if greeter.EndLine != 3 {
		t.Errorf("Greeter extent end: got %d, want 3", greeter.EndLine)
	}
}

func TestCodeParserVariableIsSingleLine(t *testing.T) {
	content := "var answer = 42\n\nfunc use() {\n\t_ = answer\n}\n"
	doc := NewCodeParser().Parse("x.go", content, block.FileStats{})

	v := findBlock(&doc, block.TypeVariable, "answer")
	if v == nil {
		t.Fatal("missing variable block")
	}
	if v.StartLine != 1 || v.EndLine != 1 {
		t.Errorf("variable extent: got %d-%d, want 1-1", v.StartLine, v.EndLine)
	}
}
