// Package mro computes C3 linearizations of multiple-inheritance graphs.
package mro

import (
	"errors"
	"fmt"
)

// ErrInconsistent is returned when no linearization preserves every local
// precedence order.
var ErrInconsistent = errors.New("mro: inconsistent hierarchy")

// Linearize returns root followed by its ancestors in C3 order (nearest first).
// bases returns the direct bases of a node in declaration order.
func Linearize[T comparable](root T, bases func(T) []T) ([]T, error) {
	return linearize(root, bases, map[T]bool{})
}

func linearize[T comparable](n T, bases func(T) []T, visiting map[T]bool) ([]T, error) {
	if visiting[n] {
		return nil, fmt.Errorf("%w: cycle through %v", ErrInconsistent, n)
	}
	visiting[n] = true
	defer delete(visiting, n)

	direct := bases(n)
	seqs := make([][]T, 0, len(direct)+1)
	for _, b := range direct {
		l, err := linearize(b, bases, visiting)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, l)
	}
	seqs = append(seqs, append([]T(nil), direct...))

	out := []T{n}
	for {
		seqs = dropEmpty(seqs)
		if len(seqs) == 0 {
			return out, nil
		}
		head, ok := pickHead(seqs)
		if !ok {
			return nil, fmt.Errorf("%w: cannot order bases of %v", ErrInconsistent, n)
		}
		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

// pickHead returns the first sequence head that appears in no other tail.
func pickHead[T comparable](seqs [][]T) (T, bool) {
	for _, s := range seqs {
		cand := s[0]
		if !inTail(cand, seqs) {
			return cand, true
		}
	}
	var zero T
	return zero, false
}

func inTail[T comparable](x T, seqs [][]T) bool {
	for _, s := range seqs {
		for _, v := range s[1:] {
			if v == x {
				return true
			}
		}
	}
	return false
}

func dropEmpty[T any](seqs [][]T) [][]T {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}
