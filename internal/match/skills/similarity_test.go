package skills

import "testing"

func TestScore_IdenticalSets(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	got := s.Score([]string{"python", "react"}, []string{"python", "react"})
	if got != 1.0 {
		t.Fatalf("expected 1.0 for identical sets, got %f", got)
	}
}

func TestScore_IdentityProperty(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	sets := [][]string{
		{"go"},
		{"go", "postgresql", "docker"},
		{"Python", " react ", "SQL"},
	}
	for _, set := range sets {
		if got := s.Score(set, set); got != 1.0 {
			t.Fatalf("Score(S,S) = %f for %v, want 1.0", got, set)
		}
	}
}

func TestScore_EmptySets(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	if got := s.Score(nil, []string{"go"}); got != 0.0 {
		t.Fatalf("empty candidate set: got %f, want 0", got)
	}
	if got := s.Score([]string{"go"}, nil); got != 0.0 {
		t.Fatalf("empty required set: got %f, want 0", got)
	}
	if got := s.Score([]string{"  "}, []string{"go"}); got != 0.0 {
		t.Fatalf("blank candidate skills: got %f, want 0", got)
	}
}

func TestScore_CaseAndWhitespaceInsensitive(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	got := s.Score([]string{" Python ", "REACT"}, []string{"python", "react"})
	if got != 1.0 {
		t.Fatalf("expected normalization to yield 1.0, got %f", got)
	}
}

func TestScore_OrderIndependent(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	a := s.Score([]string{"go", "docker", "react"}, []string{"python", "kubernetes"})
	b := s.Score([]string{"react", "go", "docker"}, []string{"kubernetes", "python"})
	if a != b {
		t.Fatalf("order dependence: %f != %f", a, b)
	}
}

func TestScore_AliasExpansion(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	// golang aliases go: direct 0/1, semantic 0.9/1.
	got := s.Score([]string{"golang"}, []string{"go"})
	want := 0.3 * 0.9
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("alias match: got %f, want %f", got, want)
	}
}

func TestScore_PartialDirectPlusAlias(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	// python exact, k8s aliases kubernetes.
	got := s.Score([]string{"python", "k8s"}, []string{"python", "kubernetes"})
	want := 0.7*0.5 + 0.3*(0.9/2.0)
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("mixed match: got %f, want %f", got, want)
	}
}

func TestScore_ApproximateFallback(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	// No alias relation exists; Jaro-Winkler on a near-identical string
	// should clear the 0.8 threshold and contribute at 0.7 weight.
	got := s.Score([]string{"postgresss"}, []string{"postgress"})
	if got <= 0 {
		t.Fatalf("expected approximate match to contribute, got %f", got)
	}
	if got >= 0.3 {
		t.Fatalf("semantic-only score should stay under the semantic weight, got %f", got)
	}
}

func TestScore_NoMatch(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	got := s.Score([]string{"cooking"}, []string{"kubernetes"})
	if got != 0.0 {
		t.Fatalf("unrelated skills: got %f, want 0", got)
	}
}

func TestScore_BoundedByOne(t *testing.T) {
	s := NewScorer(0.7, 0.3)
	cand := []string{"go", "golang", "python", "py", "react", "reactjs"}
	req := []string{"go", "python", "react"}
	got := s.Score(cand, req)
	if got < 0 || got > 1 {
		t.Fatalf("score out of range: %f", got)
	}
}

func TestScore_DefaultBlendOnBadWeights(t *testing.T) {
	s := NewScorer(0, 0)
	if got := s.Score([]string{"go"}, []string{"go"}); got != 1.0 {
		t.Fatalf("default blend: got %f, want 1.0", got)
	}
}
