// Package sessionid generates human-readable session identifiers in the
// form "color-animal-xxxx", e.g. "teal-kangaroo-aB3x".
package sessionid

import (
	"crypto/rand"
	"fmt"
)

var colors = [...]string{
	"red", "blue", "green", "yellow", "orange", "purple",
	"pink", "grey", "white", "black", "teal",
}

var animals = [...]string{
	"dog", "cat", "parrot", "elephant", "leopard", "tiger", "bear", "monkey",
	"horse", "cow", "rabbit", "dolphin", "penguin", "snake", "fox", "giraffe",
	"kangaroo", "owl", "wolf", "crocodile", "platypus", "raccoon", "chicken",
}

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// New returns a fresh session id. It does not check for collisions — the
// caller (session.Lobby.CreateGame) retries with a new id if one already
// exists.
func New() (string, error) {
	colorIdx, err := randomIndex(len(colors))
	if err != nil {
		return "", err
	}
	animalIdx, err := randomIndex(len(animals))
	if err != nil {
		return "", err
	}
	tail, err := randomTail(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", colors[colorIdx], animals[animalIdx], tail), nil
}

func randomIndex(n int) (int, error) {
	buf := make([]byte, 1)
	for {
		if _, err := rand.Read(buf); err != nil {
			return 0, err
		}
		// Reject-and-retry avoids modulo bias for the small n this package uses.
		if int(buf[0]) < (256/n)*n {
			return int(buf[0]) % n, nil
		}
	}
}

func randomTail(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = alphanumeric[int(b)%len(alphanumeric)]
	}
	return string(out), nil
}
