package riscostime

import (
	"testing"
	"time"
)

func TestQuinRoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 5, 17, 23, 8, 7, 0, time.UTC),
		time.Date(2099, 12, 31, 23, 59, 59, 990_000_000, time.UTC),
	}
	for _, tc := range cases {
		q := EpochToQuin(tc)
		got := QuinToEpoch(q)
		if !got.Equal(tc) {
			t.Errorf("round trip mismatch: %v -> %d -> %v", tc, q, got)
		}
	}
}

func TestLoadExecTypedRoundTrip(t *testing.T) {
	for ft := 0; ft <= 0xFFF; ft += 0x137 {
		q := Quin(123456789012)
		load, exec := QuinToLoadExec(q, ft)
		if !IsTyped(load) {
			t.Fatalf("filetype %#x: expected typed load address, got %#x", ft, load)
		}
		gotQuin, ok := LoadExecToQuin(load, exec)
		if !ok {
			t.Fatalf("filetype %#x: expected typed", ft)
		}
		if gotQuin != q {
			t.Errorf("filetype %#x: quin round trip mismatch: %d != %d", ft, gotQuin, q)
		}
		wantFT := ft
		if ft == DirectoryFiletype {
			wantFT = DirectoryFiletypeInternal
		}
		if got := FiletypeOfLoadAddr(load); got != wantFT {
			t.Errorf("filetype %#x: extracted filetype = %#x, want %#x", ft, got, wantFT)
		}
	}
}

func TestUntypedLoadExecIsOpaque(t *testing.T) {
	load, exec := uint32(0x00008000), uint32(0x0000C000)
	if IsTyped(load) {
		t.Fatal("expected untyped load address")
	}
	if _, ok := LoadExecToQuin(load, exec); ok {
		t.Fatal("expected LoadExecToQuin to report untyped")
	}
}

func TestDOSDateTimeRoundTrip(t *testing.T) {
	want := time.Date(2020, 5, 17, 23, 8, 6, 0, time.UTC)
	dt := DOSDateTimeFromTime(want)
	got := dt.ToTime()
	if !got.Equal(want) {
		t.Errorf("DOS date/time round trip = %v, want %v", got, want)
	}
}

func TestDOSDateTimeFloorsAtEpoch(t *testing.T) {
	dt := DOSDateTimeFromTime(time.Date(1975, 1, 1, 0, 0, 0, 0, time.UTC))
	got := dt.ToTime()
	want := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("pre-epoch floor = %v, want %v", got, want)
	}
}

func TestNormalizeBrokenDownCarriesSeconds(t *testing.T) {
	y, mo, d, h, mi, s, cs := NormalizeBrokenDown(2020, 5, 17, 23, 8, 60, 0)
	if s != 0 || mi != 9 {
		t.Errorf("got h=%d mi=%d s=%d cs=%d, want mi=9 s=0", h, mi, s, cs)
	}
	if y != 2020 || mo != 5 || d != 17 {
		t.Errorf("date fields should pass through unchanged, got %d-%d-%d", y, mo, d)
	}
}

func TestNormalizeBrokenDownFractionalCentiseconds(t *testing.T) {
	_, _, _, _, mi, s, cs := NormalizeBrokenDown(2020, 5, 17, 23, 8, 7, 250)
	if s != 9 || cs != 50 || mi != 8 {
		t.Errorf("got mi=%d s=%d cs=%d, want mi=8 s=9 cs=50", mi, s, cs)
	}
}
