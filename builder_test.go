package xcrud

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildInsert_SingleAndBatch(t *testing.T) {
	cols := []string{"ID", "Name"}

	got, err := BuildInsert("users", cols, [][]string{{"1", "'ada'"}})
	if err != nil {
		t.Fatalf("BuildInsert: %v", err)
	}
	if want := "INSERT INTO `users` (`ID`,`Name`) VALUES (1,'ada')"; got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}

	got, err = BuildInsert("users", cols, [][]string{{"1", "'a'"}, {"2", "'b'"}, {"3", "NULL"}})
	if err != nil {
		t.Fatalf("BuildInsert: %v", err)
	}
	if want := "INSERT INTO `users` (`ID`,`Name`) VALUES (1,'a'),(2,'b'),(3,NULL)"; got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	if n := strings.Count(got, "`ID`"); n != 1 {
		t.Fatalf("column list repeated %d times", n)
	}
}

func TestBuildInsert_QuestionMarksInLiteralsUntouched(t *testing.T) {
	got, err := BuildInsert("q", []string{"Text"}, [][]string{{"'why?'"}})
	if err != nil {
		t.Fatalf("BuildInsert: %v", err)
	}
	if want := "INSERT INTO `q` (`Text`) VALUES ('why?')"; got != want {
		t.Fatalf("got %s", got)
	}
}

func TestBuildInsert_Errors(t *testing.T) {
	if _, err := BuildInsert("t", []string{"a"}, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("want ErrEmptyBatch, got %v", err)
	}
	if _, err := BuildInsert("t", nil, [][]string{{}}); !errors.Is(err, ErrNoColumns) {
		t.Fatalf("want ErrNoColumns, got %v", err)
	}
	if _, err := BuildInsert("t", []string{"a", "b"}, [][]string{{"1"}}); err == nil {
		t.Fatal("want arity error")
	}
}

func TestBuildUpsert(t *testing.T) {
	got, err := BuildUpsert("users", []string{"ID", "Name", "Age"}, [][]string{{"1", "'a'", "30"}, {"2", "'b'", "NULL"}}, "id")
	if err != nil {
		t.Fatalf("BuildUpsert: %v", err)
	}
	want := "INSERT INTO `users` (`ID`,`Name`,`Age`) VALUES (1,'a',30),(2,'b',NULL) " +
		"ON DUPLICATE KEY UPDATE `Name`=VALUES(`Name`),`Age`=VALUES(`Age`)"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestBuildUpsert_OnlyKeyColumn(t *testing.T) {
	_, err := BuildUpsert("t", []string{"ID"}, [][]string{{"1"}}, "ID")
	if !errors.Is(err, ErrNoColumns) {
		t.Fatalf("want ErrNoColumns, got %v", err)
	}
	if _, err := BuildUpsert("t", []string{"ID"}, nil, "ID"); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("want ErrEmptyBatch, got %v", err)
	}
}

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		where string
		want  string
	}{
		{"", "SELECT * FROM `users`"},
		{"   ", "SELECT * FROM `users`"},
		{"age > 18 AND name LIKE 'a%'", "SELECT * FROM `users` WHERE age > 18 AND name LIKE 'a%'"},
	}
	for _, tc := range tests {
		got, err := BuildSelect("users", tc.where)
		if err != nil {
			t.Fatalf("BuildSelect(%q): %v", tc.where, err)
		}
		if got != tc.want {
			t.Fatalf("BuildSelect(%q) = %s, want %s", tc.where, got, tc.want)
		}
	}
}

func TestBuildPagedSelect(t *testing.T) {
	tests := []struct {
		where, order string
		page, size   int
		want         string
	}{
		{"", "", 1, 50, "SELECT * FROM `t` LIMIT 50 OFFSET 0"},
		{"", "", 3, 20, "SELECT * FROM `t` LIMIT 20 OFFSET 40"},
		{"a = 1", "", 2, 10, "SELECT * FROM `t` WHERE a = 1 LIMIT 10 OFFSET 10"},
		{"", "b DESC", 1, 5, "SELECT * FROM `t` ORDER BY b DESC LIMIT 5 OFFSET 0"},
		{"a = 1", "b DESC, c", 4, 25, "SELECT * FROM `t` WHERE a = 1 ORDER BY b DESC, c LIMIT 25 OFFSET 75"},
	}
	for _, tc := range tests {
		got, err := BuildPagedSelect("t", tc.where, tc.order, tc.page, tc.size)
		if err != nil {
			t.Fatalf("BuildPagedSelect: %v", err)
		}
		if got != tc.want {
			t.Fatalf("got  %s\nwant %s", got, tc.want)
		}
	}
}

func TestOffset_InvalidPage(t *testing.T) {
	for _, pc := range [][2]int{{0, 10}, {-1, 10}, {1, 0}, {1, -5}} {
		if _, err := Offset(pc[0], pc[1]); !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("Offset(%d,%d): want ErrInvalidPage, got %v", pc[0], pc[1], err)
		}
		if _, err := BuildPagedSelect("t", "", "", pc[0], pc[1]); !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("BuildPagedSelect(%d,%d): want ErrInvalidPage, got %v", pc[0], pc[1], err)
		}
	}
	if off, err := Offset(3, 20); err != nil || off != 40 {
		t.Fatalf("Offset(3,20) = %d, %v", off, err)
	}
}

func TestBuildUpdate_ExcludesKey(t *testing.T) {
	cols := []string{"ID", "Name", "Active"}
	vals := []string{"7", "'x'", "1"}
	for _, key := range []string{"ID", "id", "Id"} {
		got, err := BuildUpdate("users", cols, vals, key, "7")
		if err != nil {
			t.Fatalf("BuildUpdate: %v", err)
		}
		want := "UPDATE `users` SET `Name` = 'x', `Active` = 1 WHERE `" + key + "` = 7"
		if got != want {
			t.Fatalf("got  %s\nwant %s", got, want)
		}
		set := got[strings.Index(got, " SET "):strings.Index(got, " WHERE ")]
		if strings.Contains(strings.ToLower(set), "`id`") {
			t.Fatalf("key column in SET list: %s", got)
		}
	}
}

func TestBuildUpdate_Errors(t *testing.T) {
	if _, err := BuildUpdate("t", []string{"ID"}, []string{"1"}, "id", "1"); !errors.Is(err, ErrNoColumns) {
		t.Fatalf("want ErrNoColumns, got %v", err)
	}
	if _, err := BuildUpdate("t", []string{"a", "b"}, []string{"1"}, "a", "1"); err == nil {
		t.Fatal("want arity error")
	}
}

func TestBuildDelete(t *testing.T) {
	got, err := BuildDelete("users", "ID", "'it''s'")
	if err != nil {
		t.Fatalf("BuildDelete: %v", err)
	}
	if want := "DELETE FROM `users` WHERE `ID` = 'it''s'"; got != want {
		t.Fatalf("got %s", got)
	}
}
