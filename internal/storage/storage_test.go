package storage

import (
	"strings"
	"testing"
)

func TestMySQLConfig_DSN(t *testing.T) {
	cfg := MySQLConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "sparrow",
		Password: "secret",
		Database: "sparrowbot",
	}

	got := cfg.DSN()
	want := "sparrow:secret@tcp(db.internal:3307)/sparrowbot?parseTime=true"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEnsureParam(t *testing.T) {
	cases := []struct {
		dsn  string
		want string
	}{
		{"u@tcp(h)/db", "u@tcp(h)/db?parseTime=true"},
		{"u@tcp(h)/db?loc=UTC", "u@tcp(h)/db?loc=UTC&parseTime=true"},
		{"u@tcp(h)/db?parseTime=false", "u@tcp(h)/db?parseTime=false"},
	}

	for _, c := range cases {
		if got := ensureParam(c.dsn, "parseTime", "true"); got != c.want {
			t.Errorf("ensureParam(%q): expected %q, got %q", c.dsn, c.want, got)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	got := escapeLike(`50%_off\`)
	want := `50\%\_off\\`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMediaTable(t *testing.T) {
	if table, _ := mediaTable(MediaAnime); table != "anilist_anime" {
		t.Errorf("expected anilist_anime, got %q", table)
	}
	if table, _ := mediaTable(MediaManga); table != "anilist_manga" {
		t.Errorf("expected anilist_manga, got %q", table)
	}
	if _, err := mediaTable("NOVEL"); err == nil || !strings.Contains(err.Error(), "NOVEL") {
		t.Errorf("expected unknown media type error, got %v", err)
	}
}
