package model

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory(" Wisdom ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != CategoryWisdom {
		t.Fatalf("expected wisdom, got %q", got)
	}
	if _, err := ParseCategory("sports"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestPreferencesResolvedDefaultsToRandom(t *testing.T) {
	if got := (Preferences{}).Resolved(); got != CategoryRandom {
		t.Fatalf("expected random, got %q", got)
	}
	if got := (Preferences{Category: CategoryLove}).Resolved(); got != CategoryLove {
		t.Fatalf("expected love, got %q", got)
	}
}

func TestPreferencesValidate(t *testing.T) {
	ok := Preferences{Category: CategoryMotivation, Topic: "courage", Style: "modern"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid preferences, got %v", err)
	}
	if err := (Preferences{}).Validate(); err != nil {
		t.Fatalf("expected empty preferences to be valid, got %v", err)
	}

	long := Preferences{Category: CategoryLife, Topic: strings.Repeat("a", 101)}
	err := long.Validate()
	if err == nil || !strings.Contains(err.Error(), "topic must be at most 100") {
		t.Fatalf("expected topic length error, got %v", err)
	}

	bad := Preferences{Category: Category("sports")}
	err = bad.Validate()
	if err == nil || !strings.Contains(err.Error(), "category must be one of") {
		t.Fatalf("expected category error, got %v", err)
	}
}

func TestClipboardText(t *testing.T) {
	q := QuoteResult{Text: "Be the change.", Author: "X"}
	if got := q.ClipboardText(); got != `"Be the change." - X` {
		t.Fatalf("unexpected clipboard text: %s", got)
	}
}

func TestCategoryTitle(t *testing.T) {
	if got := CategoryFriendship.Title(); got != "Friendship" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestPreferencesValidateTrimsBeforeLimit(t *testing.T) {
	padded := Preferences{
		Topic: "  " + strings.Repeat("a", TopicMaxLen) + "  ",
		Style: " " + strings.Repeat("b", StyleMaxLen) + " ",
	}
	if err := padded.Validate(); err != nil {
		t.Fatalf("expected trimmed values within limits, got %v", err)
	}
	over := Preferences{Style: strings.Repeat("b", StyleMaxLen+1)}
	if err := over.Validate(); err == nil {
		t.Fatalf("expected style length error")
	}
}

func TestPreferencesTagsMatchLimits(t *testing.T) {
	typ := reflect.TypeOf(Preferences{})
	for field, limit := range map[string]int{"Topic": TopicMaxLen, "Style": StyleMaxLen} {
		f, ok := typ.FieldByName(field)
		if !ok {
			t.Fatalf("missing field %s", field)
		}
		if got, want := f.Tag.Get("validate"), "max="+strconv.Itoa(limit); got != want {
			t.Fatalf("%s tag=%q want %q", field, got, want)
		}
	}
}
