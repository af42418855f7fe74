package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("name", "C.D. Aguilas"), IsNotNull("shield_filename")).
		OrderBy("name").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE name = $1 AND shield_filename IS NOT NULL ORDER BY name LIMIT 5"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "C.D. Aguilas" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderJoin(t *testing.T) {
	query, args, err := Select("s.position", "t.name").
		From("standings s").
		Join("teams t ON s.team_id = t.id").
		Where(Eq("s.group_id", int64(7))).
		OrderBy("s.position").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT s.position, t.name FROM standings s JOIN teams t ON s.team_id = t.id WHERE s.group_id = $1 ORDER BY s.position"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderSuffix(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("name", "shield_filename").
		Values("U.D. Telde", "telde.png").
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (name, shield_filename) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("teams").
		Set("shield_filename", "new.png").
		Where(Eq("id", int64(3))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE teams SET shield_filename = $1 WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "new.png" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("standings").
		Where(Eq("group_id", int64(11))).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM standings WHERE group_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("standings").ToSQL(); err == nil {
		t.Fatal("expected error for unconditioned delete")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		GroupID  int64  `db:"group_id"`
		Position int    `db:"position"`
		Ignored  string `db:"-"`
	}

	query, args, err := InsertModel("standings", row{GroupID: 2, Position: 1}, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO standings (group_id, position) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
