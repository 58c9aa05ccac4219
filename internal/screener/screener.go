// Package screener runs a local ONNX severity classifier so the
// statistical tier works without a network hop. Models are small
// sequence classifiers (DistilBERT-class) exported with a vocab.txt
// and a label map.
package screener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/joebwd/mental-wellness-prompts/internal/provider"
	"github.com/joebwd/mental-wellness-prompts/internal/redact"
)

const (
	defaultSeqLen       = 128
	defaultPoolSize     = 1
	defaultIntraThreads = 1
	defaultInterThreads = 1
)

// Config locates the model assets and sizes the session pool.
type Config struct {
	ModelPath string
	VocabPath string
	LabelPath string // optional label_map.json; defaults to severity order
	SeqLen    int
	PoolSize  int

	IntraThreads int
	InterThreads int
}

// Screener is a pooled ONNX severity classifier. It satisfies the
// provider interface used by the statistical tier.
type Screener struct {
	tokenizer *wordPieceTokenizer
	labels    []string
	seqLen    int
	sessions  chan *onnxSession
}

type onnxSession struct {
	session       *ort.AdvancedSession
	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	output        *ort.Tensor[float32]
}

// New loads the model and warms a session pool.
func New(cfg Config) (*Screener, error) {
	if strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	if cfg.SeqLen <= 0 {
		cfg.SeqLen = defaultSeqLen
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}
	if cfg.IntraThreads <= 0 {
		cfg.IntraThreads = defaultIntraThreads
	}
	if cfg.InterThreads <= 0 {
		cfg.InterThreads = defaultInterThreads
	}

	tokenizer, err := loadWordPieceTokenizer(cfg.VocabPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	labels, err := loadLabels(cfg.LabelPath)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}

	libPath := resolveSharedLibraryPath(filepath.Dir(cfg.ModelPath))
	if libPath == "" {
		return nil, errors.New("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or install the runtime")
	}
	ort.SetSharedLibraryPath(libPath)
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	sessions := make(chan *onnxSession, cfg.PoolSize)
	for i := 0; i < cfg.PoolSize; i++ {
		ss, err := newSession(cfg.ModelPath, cfg.SeqLen, len(labels), cfg.IntraThreads, cfg.InterThreads)
		if err != nil {
			return nil, fmt.Errorf("create onnx session %d/%d: %w", i+1, cfg.PoolSize, err)
		}
		sessions <- ss
	}

	redact.Logf("screener: loaded model=%s labels=%d seq_len=%d pool=%d",
		filepath.Base(cfg.ModelPath), len(labels), cfg.SeqLen, cfg.PoolSize)

	return &Screener{
		tokenizer: tokenizer,
		labels:    labels,
		seqLen:    cfg.SeqLen,
		sessions:  sessions,
	}, nil
}

// ClassifyText scores the utterance and returns the argmax severity
// label with its softmax probability.
func (s *Screener) ClassifyText(ctx context.Context, text string, history []string) (*provider.Classification, error) {
	if s == nil {
		return nil, errors.New("screener not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return &provider.Classification{Severity: "none", Confidence: 1}, nil
	}

	var ss *onnxSession
	select {
	case ss = <-s.sessions:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { s.sessions <- ss }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inputIDs, attn := s.tokenizer.encode(text, s.seqLen)
	copy(ss.inputIDs.GetData(), inputIDs)
	copy(ss.attentionMask.GetData(), attn)

	if err := ss.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	logits := ss.output.GetData()
	if len(logits) == 0 {
		return nil, errors.New("empty model output")
	}
	if len(logits) > len(s.labels) {
		logits = logits[:len(s.labels)]
	}

	probs := softmax(logits)
	idx := 0
	for i, p := range probs {
		if p > probs[idx] {
			idx = i
		}
	}

	return &provider.Classification{
		Severity:   s.labels[idx],
		Confidence: float64(probs[idx]),
		Indicators: []string{"model:" + s.labels[idx]},
	}, nil
}

// Warmup runs one inference so the first request does not pay the
// graph initialization cost.
func (s *Screener) Warmup() error {
	_, err := s.ClassifyText(context.Background(), "hello", nil)
	return err
}

// Close releases the pooled sessions.
func (s *Screener) Close() {
	if s == nil || s.sessions == nil {
		return
	}
	close(s.sessions)
	for ss := range s.sessions {
		ss.session.Destroy()
		ss.inputIDs.Destroy()
		ss.attentionMask.Destroy()
		ss.output.Destroy()
	}
}

func newSession(modelPath string, seqLen, numLabels, intraThr, interThr int) (*onnxSession, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	if err := opts.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		opts.Destroy()
		return nil, fmt.Errorf("set graph optimization: %w", err)
	}
	if err := opts.SetIntraOpNumThreads(intraThr); err != nil {
		opts.Destroy()
		return nil, fmt.Errorf("set intra threads: %w", err)
	}
	if err := opts.SetInterOpNumThreads(interThr); err != nil {
		opts.Destroy()
		return nil, fmt.Errorf("set inter threads: %w", err)
	}

	inputShape := ort.NewShape(1, int64(seqLen))
	inputIDs, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		opts.Destroy()
		return nil, fmt.Errorf("allocate input_ids tensor: %w", err)
	}
	attnMask, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		opts.Destroy()
		return nil, fmt.Errorf("allocate attention_mask tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(numLabels)))
	if err != nil {
		opts.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		[]ort.Value{inputIDs, attnMask},
		[]ort.Value{output},
		opts,
	)
	if err != nil {
		opts.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}
	opts.Destroy()

	return &onnxSession{
		session:       session,
		inputIDs:      inputIDs,
		attentionMask: attnMask,
		output:        output,
	}, nil
}

// loadLabels reads label_map.json, an index-to-name map like
// {"0": "none", "1": "moderate", "2": "high", "3": "critical"}.
// An empty path returns that default ordering.
func loadLabels(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return []string{"none", "moderate", "high", "critical"}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label map: %w", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode label map: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("label map is empty")
	}
	labels := make([]string, len(raw))
	for k, v := range raw {
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || idx < 0 || idx >= len(labels) {
			return nil, fmt.Errorf("label map has invalid index %q", k)
		}
		labels[idx] = v
	}
	for i, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("label map missing index %d", i)
		}
	}
	return labels, nil
}

func resolveSharedLibraryPath(modelDir string) string {
	if env := strings.TrimSpace(os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")); env != "" {
		return env
	}

	names := []string{
		"libonnxruntime.dylib",
		"onnxruntime.dylib",
		"libonnxruntime.so",
		"onnxruntime.so",
		"onnxruntime.dll",
	}
	dirs := []string{
		modelDir,
		filepath.Join(modelDir, "lib"),
		".",
		"/opt/homebrew/lib",
		"/usr/local/lib",
		"/usr/lib",
	}

	for _, dir := range dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

func softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	maxVal := logits[0]
	for _, v := range logits[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float64
	out := make([]float32, len(logits))
	for i, v := range logits {
		e := math.Exp(float64(v - maxVal))
		out[i] = float32(e)
		sum += e
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}
