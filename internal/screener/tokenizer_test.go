package screener

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeVocab(t *testing.T, tokens []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	return path
}

func testVocab(t *testing.T) *wordPieceTokenizer {
	t.Helper()
	path := writeVocab(t, []string{
		"[PAD]", "[UNK]", "[CLS]", "[SEP]",
		"i", "want", "to", "die", "feel", "##ing", "hope", "##less",
	})
	tok, err := loadWordPieceTokenizer(path)
	if err != nil {
		t.Fatalf("load tokenizer: %v", err)
	}
	return tok
}

func TestEncodeKnownWords(t *testing.T) {
	tok := testVocab(t)
	ids, attn := tok.encode("I want to die", 8)
	if len(ids) != 8 || len(attn) != 8 {
		t.Fatalf("expected length 8, got %d/%d", len(ids), len(attn))
	}
	// [CLS] i want to die [SEP] [PAD] [PAD]
	want := []int64{2, 4, 5, 6, 7, 3, 0, 0}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("token %d: expected %d, got %d (ids=%v)", i, id, ids[i], ids)
		}
	}
	wantAttn := []int64{1, 1, 1, 1, 1, 1, 0, 0}
	for i, a := range wantAttn {
		if attn[i] != a {
			t.Fatalf("attention %d: expected %d, got %d", i, a, attn[i])
		}
	}
}

func TestEncodeWordPieces(t *testing.T) {
	tok := testVocab(t)
	ids, _ := tok.encode("feeling hopeless", 8)
	// [CLS] feel ##ing hope ##less [SEP]
	want := []int64{2, 8, 9, 10, 11, 3}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("token %d: expected %d, got %d (ids=%v)", i, id, ids[i], ids)
		}
	}
}

func TestEncodeUnknownWord(t *testing.T) {
	tok := testVocab(t)
	ids, _ := tok.encode("xylophone", 6)
	if ids[1] != tok.unkID {
		t.Fatalf("expected [UNK] for an unknown word, got %d", ids[1])
	}
}

func TestEncodeTruncatesLongInput(t *testing.T) {
	tok := testVocab(t)
	long := strings.Repeat("i want to die ", 20)
	ids, attn := tok.encode(long, 8)
	if len(ids) != 8 {
		t.Fatalf("expected truncation to 8, got %d", len(ids))
	}
	for _, a := range attn {
		if a != 1 {
			t.Fatalf("full sequence should be fully attended, attn=%v", attn)
		}
	}
}

func TestEncodeCaseFolds(t *testing.T) {
	tok := testVocab(t)
	upper, _ := tok.encode("WANT", 4)
	lower, _ := tok.encode("want", 4)
	for i := range upper {
		if upper[i] != lower[i] {
			t.Fatalf("case folding mismatch: %v vs %v", upper, lower)
		}
	}
}

func TestLoadTokenizerMissingFile(t *testing.T) {
	if _, err := loadWordPieceTokenizer(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing vocab")
	}
}
