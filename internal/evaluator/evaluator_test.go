package evaluator

import (
	"errors"
	"slices"
	"testing"

	"github.com/eduquest/eduquest/internal/course"
)

var (
	mcQ = &course.MultipleChoiceQuestion{
		ID: "q1", Text: "Which of these means \"Hello\"?",
		Options:            []string{"Adiós", "Hola", "Gracias", "Por favor"},
		CorrectAnswerIndex: 1,
	}
	fibQ   = &course.FillInTheBlankQuestion{ID: "q2", Text: "Water?", CorrectAnswer: "agua"}
	matchQ = &course.MatchingQuestion{
		ID: "q3", Text: "Match",
		Prompts: []course.Pair{{ID: "a", Content: "Hola"}, {ID: "b", Content: "Gracias"}, {ID: "c", Content: "Pan"}},
		Answers: []course.Pair{{ID: "c", Content: "Bread"}, {ID: "a", Content: "Hello"}, {ID: "b", Content: "Thanks"}},
	}
	seqQ = &course.SequencingQuestion{ID: "q4", Text: "Order", Items: []string{"uno", "dos", "tres", "cuatro"}}
)

func TestEvaluate_MultipleChoice(t *testing.T) {
	for i := range mcQ.Options {
		got, err := Evaluate(mcQ, Choice{Index: i})
		if err != nil {
			t.Fatalf("index %d: %v", i, err)
		}
		if want := i == mcQ.CorrectAnswerIndex; got != want {
			t.Errorf("index %d: got %v, want %v", i, got, want)
		}
	}
	if _, err := Evaluate(mcQ, Choice{Index: 4}); !errors.Is(err, ErrIncomplete) {
		t.Errorf("out of range index: got %v, want ErrIncomplete", err)
	}
}

func TestEvaluate_FillInTheBlank(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"agua", true},
		{"  Agua ", true},
		{"AGUA", true},
		{"aguas", false},
		{"a gua", false},
	}
	for _, tt := range tests {
		got, err := Evaluate(fibQ, Text{Value: tt.in})
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, blank := range []string{"", "   ", "\t\n"} {
		if Complete(fibQ, Text{Value: blank}) {
			t.Errorf("Complete(%q) = true", blank)
		}
		if _, err := Evaluate(fibQ, Text{Value: blank}); !errors.Is(err, ErrIncomplete) {
			t.Errorf("Evaluate(%q) err = %v, want ErrIncomplete", blank, err)
		}
	}
}

func TestEvaluate_Matching(t *testing.T) {
	correct := Matching{"a": "a", "b": "b", "c": "c"}
	got, err := Evaluate(matchQ, correct)
	if err != nil || !got {
		t.Fatalf("identity mapping: got %v, %v", got, err)
	}

	ids := []string{"a", "b", "c"}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			swapped := Matching{"a": "a", "b": "b", "c": "c"}
			swapped[ids[i]], swapped[ids[j]] = swapped[ids[j]], swapped[ids[i]]
			got, err := Evaluate(matchQ, swapped)
			if err != nil {
				t.Fatalf("swap %s/%s: %v", ids[i], ids[j], err)
			}
			if got {
				t.Errorf("swap %s/%s evaluated correct", ids[i], ids[j])
			}
		}
	}

	if _, err := Evaluate(matchQ, Matching{"a": "a", "b": "b"}); !errors.Is(err, ErrIncomplete) {
		t.Errorf("partial mapping: got %v, want ErrIncomplete", err)
	}
	if Complete(matchQ, Matching{"a": "a", "b": "a", "c": "c"}) {
		t.Error("mapping reusing an answer reported complete")
	}
}

func TestMatchingBoard_SingleUseAnswers(t *testing.T) {
	b := NewMatchingBoard(matchQ)
	b.Assign("a", "b")
	b.Assign("b", "b")

	if _, ok := b.Assignment("a"); ok {
		t.Error("answer b still assigned to prompt a after reassignment")
	}
	if p, _ := b.AssignedTo("b"); p != "b" {
		t.Errorf("answer b held by %q, want b", p)
	}

	b.Assign("b", "c")
	if _, ok := b.AssignedTo("b"); ok {
		t.Error("answer b not released when prompt b took answer c")
	}

	if b.Assign("zzz", "a") {
		t.Error("unknown prompt accepted")
	}

	b.Assign("a", "a")
	b.Assign("b", "b")
	b.Assign("c", "c")
	if !Complete(matchQ, b) {
		t.Fatal("fully assigned board not complete")
	}
	if ok, _ := Evaluate(matchQ, b); !ok {
		t.Error("correct board evaluated wrong")
	}

	b.Unassign("c")
	if Complete(matchQ, b) {
		t.Error("board complete after unassign")
	}
	b.Reset()
	if len(b.Mapping()) != 0 {
		t.Error("Reset left assignments")
	}
}

func TestEvaluate_Sequencing(t *testing.T) {
	if ok, err := Evaluate(seqQ, Sequence(seqQ.Items)); err != nil || !ok {
		t.Fatalf("original order: %v, %v", ok, err)
	}
	for i := 0; i < len(seqQ.Items); i++ {
		for j := i + 1; j < len(seqQ.Items); j++ {
			order := slices.Clone(seqQ.Items)
			order[i], order[j] = order[j], order[i]
			if ok, _ := Evaluate(seqQ, Sequence(order)); ok {
				t.Errorf("transposition %d/%d evaluated correct", i, j)
			}
		}
	}
	if _, err := Evaluate(seqQ, Sequence{"uno", "dos"}); !errors.Is(err, ErrIncomplete) {
		t.Errorf("short sequence: got %v, want ErrIncomplete", err)
	}
}

func TestSequenceBoard(t *testing.T) {
	b := NewSequenceBoard(seqQ, NewShuffler(7))
	avail := b.Available()
	if len(avail) != 4 {
		t.Fatalf("available = %v", avail)
	}
	sorted := slices.Clone(avail)
	slices.Sort(sorted)
	want := slices.Clone(seqQ.Items)
	slices.Sort(want)
	if !slices.Equal(sorted, want) {
		t.Fatalf("pool %v is not a permutation of %v", avail, seqQ.Items)
	}

	// place in correct order by looking items up in the pool
	for _, item := range seqQ.Items {
		idx := slices.Index(b.Available(), item)
		if !b.Place(idx) {
			t.Fatalf("Place(%d) failed", idx)
		}
	}
	if len(b.Available()) != 0 {
		t.Error("pool not empty after placing every item")
	}
	if ok, err := Evaluate(seqQ, b); err != nil || !ok {
		t.Fatalf("correct board: %v, %v", ok, err)
	}

	if !b.Remove(0) {
		t.Fatal("Remove(0) failed")
	}
	if Complete(seqQ, b) {
		t.Error("board complete after removing an item")
	}
	if got := b.Available(); len(got) != 1 || got[0] != "uno" {
		t.Errorf("available after remove = %v", got)
	}
	if b.Place(5) || b.Remove(-1) {
		t.Error("out of range moves accepted")
	}
	b.Reset()
	if len(b.Placed()) != 0 || len(b.Available()) != 4 {
		t.Error("Reset did not return every item to the pool")
	}
}

func TestEvaluate_Mismatch(t *testing.T) {
	_, err := Evaluate(mcQ, Text{Value: "Hola"})
	var me *MismatchError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MismatchError, got %v", err)
	}
	if me.QuestionType != course.MultipleChoice {
		t.Errorf("question type = %s", me.QuestionType)
	}
	if Complete(fibQ, Choice{Index: 0}) {
		t.Error("mismatched submission reported complete")
	}
}

func TestEvaluate_Malformed(t *testing.T) {
	bad := &course.MatchingQuestion{ID: "bad", Text: "t"}
	_, err := Evaluate(bad, Matching{})
	if !errors.Is(err, course.ErrMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestShuffler_Deterministic(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f"}
	a := NewShuffler(42).Strings(items)
	b := NewShuffler(42).Strings(items)
	if !slices.Equal(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	if !slices.Equal(items, []string{"a", "b", "c", "d", "e", "f"}) {
		t.Error("Strings mutated its input")
	}
}

func TestShuffler_Uniform(t *testing.T) {
	s := NewShuffler(1)
	counts := map[string]int{}
	const rounds = 6000
	for range rounds {
		counts[s.Strings([]string{"x", "y", "z"})[0]]++
	}
	for _, k := range []string{"x", "y", "z"} {
		if c := counts[k]; c < rounds/3-300 || c > rounds/3+300 {
			t.Errorf("%s first %d times out of %d", k, c, rounds)
		}
	}
}

func TestShuffler_NilUsesRuntimeSource(t *testing.T) {
	var s *Shuffler
	out := s.Strings([]string{"a", "b"})
	if len(out) != 2 {
		t.Errorf("got %v", out)
	}
}
