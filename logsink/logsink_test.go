package logsink

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuffersSwapAndCommit(t *testing.T) {
	var b Buffers
	b.WriteStart("unit-a", "main", 100)
	b.WriteEnd("unit-a", "main", 100, 150)

	if b.Committable() != "" {
		t.Fatalf("Committable() before Swap = %q, want empty", b.Committable())
	}

	b.Swap()
	got := b.Committable()
	if !strings.Contains(got, `<WorkunitStart Name="unit-a"`) {
		t.Fatalf("Committable() = %q, want a WorkunitStart fragment", got)
	}
	if !strings.Contains(got, `<WorkunitEnd Name="unit-a"`) {
		t.Fatalf("Committable() = %q, want a WorkunitEnd fragment", got)
	}

	b.ResetCommittable()
	if b.Committable() != "" {
		t.Fatalf("Committable() after ResetCommittable = %q, want empty", b.Committable())
	}
}

func TestBuffersUsableNotVisibleUntilSwap(t *testing.T) {
	var b Buffers
	b.WriteStart("x", "main", 1)
	if b.Committable() != "" {
		t.Fatalf("Committable() = %q, want empty before any Swap", b.Committable())
	}
}

func TestWriteFrameWrapsThreads(t *testing.T) {
	var buf bytes.Buffer
	threads := []ThreadLog{
		{ID: "main", Content: "<WorkunitStart Name=\"a\"/>"},
		{ID: "pool-0", Content: ""},
	}
	if err := WriteFrame(&buf, 42, threads, ""); err != nil {
		t.Fatalf("WriteFrame returned error: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, `<Frame Number="42">`) {
		t.Fatalf("WriteFrame output = %q, want Frame Number prefix", got)
	}
	if !strings.Contains(got, `<Thread ID="main">`) {
		t.Fatalf("WriteFrame output = %q, want a Thread ID=main element", got)
	}
	if !strings.HasSuffix(got, "</Frame>") {
		t.Fatalf("WriteFrame output = %q, want a closing Frame tag", got)
	}
}

func TestWriteFrameWithDigest(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, 1, nil, "deadbeef"); err != nil {
		t.Fatalf("WriteFrame returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `Digest="deadbeef"`) {
		t.Fatalf("WriteFrame output = %q, want a Digest attribute", buf.String())
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	threads := []ThreadLog{{ID: "main", Content: "hello"}}
	d1 := Digest(threads)
	d2 := Digest(threads)
	if d1 != d2 {
		t.Fatalf("Digest() not deterministic: %q != %q", d1, d2)
	}
	if d1 == "" {
		t.Fatalf("Digest() returned empty string")
	}
}

func TestDigestDiffersOnContentChange(t *testing.T) {
	a := Digest([]ThreadLog{{ID: "main", Content: "hello"}})
	b := Digest([]ThreadLog{{ID: "main", Content: "goodbye"}})
	if a == b {
		t.Fatalf("Digest() collided for distinct content")
	}
}
