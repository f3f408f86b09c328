package ephem

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

const sampleTable = `
2440587.500000000 = A.D. 1970-Jan-01 00:00:00.0000 TDB 
 X =-1.769229980669542E-01 Y = 8.877231015770218E-01 Z = 3.848468326469811E-01
2440588.500000000 = A.D. 1970-Jan-02 00:00:00.0000 TDB 
 X =-1.942143853543406E-01 Y = 8.848262017458120E-01 Z = 3.835908587427853E-01
`

const sampleResult = `*******************************************************************************
Ephemeris / API_USER Mon Jan  1 00:00:00 2024 Pasadena, USA      / Horizons
*******************************************************************************
Target body name: Earth (399)                     {source: DE441}
Center body name: Sun (10)                        {source: DE441}
*******************************************************************************
$$SOE` + sampleTable + `$$EOE
*******************************************************************************
`

func TestTokenize(t *testing.T) {
	toks := Tokenize(" X =-1.5E-01 Y= 2\nA.D. 1970-Jan-01")

	want := []struct {
		kind TokenKind
		text string
		line int
	}{
		{TokenWord, "X", 1},
		{TokenEquals, "=", 1},
		{TokenNumber, "-1.5E-01", 1},
		{TokenWord, "Y", 1},
		{TokenEquals, "=", 1},
		{TokenNumber, "2", 1},
		{TokenWord, "A.D.", 2},
		{TokenWord, "1970-Jan-01", 2},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text || toks[i].Line != w.line {
			t.Errorf("token %d = %+v, want %+v", i, toks[i], w)
		}
	}
	if toks[2].Value != -0.15 {
		t.Errorf("value = %v, want -0.15", toks[2].Value)
	}
}

func TestExtractTable(t *testing.T) {
	table, err := ExtractTable(sampleResult)
	if err != nil {
		t.Fatalf("ExtractTable() error: %v", err)
	}
	if table != sampleTable {
		t.Errorf("table = %q", table)
	}

	if _, err := ExtractTable("no markers here"); !errors.Is(err, ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
	if _, err := ExtractTable("$$EOE before $$SOE"); !errors.Is(err, ErrNoData) {
		t.Errorf("reversed markers error = %v, want ErrNoData", err)
	}
}

func TestParseVectorTable(t *testing.T) {
	records, err := ParseVectorTable(sampleTable)
	if err != nil {
		t.Fatalf("ParseVectorTable() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r := records[0]
	if r.JD != 2440587.5 {
		t.Errorf("JD = %v", r.JD)
	}
	if !r.Time.Equal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Time = %v", r.Time)
	}
	if r.Scale != "TDB" {
		t.Errorf("Scale = %q", r.Scale)
	}
	if math.Abs(r.Pos.X+0.1769229980669542) > 1e-15 || math.Abs(r.Pos.Z-0.3848468326469811) > 1e-15 {
		t.Errorf("Pos = %+v", r.Pos)
	}
	if !records[1].Time.Equal(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("second Time = %v", records[1].Time)
	}
}

func TestParseVectorTableExtraQuantities(t *testing.T) {
	table := `2451545.000000000 = A.D. 2000-Jan-01 12:00:00.0000 TDB
 X =-1.771E-01 Y = 8.874E-01 Z = 3.847E-01
 VX=-1.720E-02 VY=-2.898E-03 VZ=-1.256E-03
 LT= 5.682E-03 RG= 9.833E-01 RR=-1.645E-05
`
	records, err := ParseVectorTable(table)
	if err != nil {
		t.Fatalf("ParseVectorTable() error: %v", err)
	}
	if len(records) != 1 || records[0].Pos.Y != 0.8874 {
		t.Errorf("records = %+v", records)
	}
	if records[0].Time.Hour() != 12 {
		t.Errorf("Time = %v", records[0].Time)
	}
}

func TestParseVectorTableNoScale(t *testing.T) {
	table := "2451545.0 = A.D. 2000-Jan-01 12:00 X = 1 Y = 2 Z = 3"
	records, err := ParseVectorTable(table)
	if err == nil {
		t.Fatalf("want error for missing seconds field, got %+v", records)
	}

	table = "2451545.0 = A.D. 2000-Jan-01 12:00:00 X = 1 Y = 2 Z = 3"
	records, err = ParseVectorTable(table)
	if err != nil {
		t.Fatalf("ParseVectorTable() error: %v", err)
	}
	if records[0].Scale != "" || records[0].Pos.Z != 3 {
		t.Errorf("record = %+v", records[0])
	}
}

func TestParseVectorTableMalformed(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{"missing equals", "2451545.0 A.D. 2000-Jan-01 12:00:00 TDB X = 1 Y = 2 Z = 3"},
		{"bc era", "1.0 = B.C. 4713-Jan-01 12:00:00 TDB X = 1 Y = 2 Z = 3"},
		{"bad date", "2451545.0 = A.D. 2000-Foo-01 12:00:00 TDB X = 1 Y = 2 Z = 3"},
		{"missing Z", "2451545.0 = A.D. 2000-Jan-01 12:00:00 TDB X = 1 Y = 2"},
		{"non-numeric value", "2451545.0 = A.D. 2000-Jan-01 12:00:00 TDB X = abc Y = 2 Z = 3"},
		{"truncated", "2451545.0 = A.D."},
		{"leading word", "X = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVectorTable(tt.table)
			if !errors.Is(err, ErrMalformedTable) {
				t.Errorf("error = %v, want ErrMalformedTable", err)
			}
		})
	}
}

func TestParseVectorTableEmpty(t *testing.T) {
	records, err := ParseVectorTable(" \n ")
	if err != nil || len(records) != 0 {
		t.Errorf("got %v, %v", records, err)
	}
}

func TestParseVectorTableErrorHasLine(t *testing.T) {
	_, err := ParseVectorTable(sampleTable + "2440589.5 = A.D. 1970-Jan-03 00:00:00 TDB X = 1 Y = 2\n")
	if err == nil || !strings.Contains(err.Error(), "line 6") {
		t.Errorf("error = %v, want mention of line 6", err)
	}
}
