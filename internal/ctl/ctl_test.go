package ctl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const ledger = `
balances:
  accounts:
    - name: 통장
      balance: 1500000
budget:
  monthly:
    - category: 생활
      items:
        - name: 관리비
          amount: 20000
personal:
  2025:
    incomes:
      items:
        - month: 1
          category: 급여
          name: 월급
          amount: 2000000
    expenses:
      items:
        - month: 2
          category: 식비
          name: 점심
          memo: 회사 근처
          amount: 12000
family:
  2024:
    memo: empty year
    expenses:
      items:
        - month: 8
          category: 여가
          name: 제주
          items:
            - name: 항공
              amount: 400000
            - name: 숙박
              amount: 250000
  2025:
    expenses:
      items:
        - month: 3
          category: 생활
          name: 관리비
          amount: 300000
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	if err := os.WriteFile(path, []byte(ledger), 0o644); err != nil {
		t.Fatalf("write ledger: %v", err)
	}
	now := func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	cmd := NewRootCmd(now)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color", "--file", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"summary", []string{"summary"}, []string{"2025 SUMMARY", "1,988,000", "-300,000", "1,500,000", "-188000"}},
		{"budget", []string{"budget"}, []string{"2025 BUDGET", "생활 / 관리비", "240,000", "125.0%"}},
		{"search", []string{"search", "회사"}, []string{"personal", "2월", "점심", "12,000"}},
		{"search no match", []string{"search", "없음"}, []string{"No matches."}},
		{"tabs monthly", []string{"tabs", "personal", "expenses"}, []string{"2월", "1 items", "12,000"}},
		{"tabs category", []string{"tabs", "family", "expenses", "--view", "category"}, []string{"생활", "300,000"}},
		{"years", []string{"years", "family"}, []string{"2024\n2025\n"}},
		{"projects", []string{"projects", "family"}, []string{"family projects", "2024", "여가", "제주", "650,000"}},
		{"no projects", []string{"projects", "personal"}, []string{"No projects."}},
		{"categories", []string{"categories", "personal", "incomes", "--year", "2026"}, []string{"급여"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute: %v\n%s", err, got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestSummaryOtherYearHidesDiscrepancy(t *testing.T) {
	got, err := run(t, "summary", "--year", "2024")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Contains(got, "Discrepancy") {
		t.Fatalf("past year should not show a discrepancy:\n%s", got)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad source", []string{"years", "company"}},
		{"projects of bad source", []string{"projects", "company"}},
		{"bad section", []string{"tabs", "personal", "savings"}},
		{"bad view", []string{"tabs", "personal", "expenses", "--view", "weekly"}},
		{"missing query", []string{"search"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	t.Setenv("GAGYEBU_FILE", "")
	cmd := NewRootCmd(time.Now)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"summary"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without a ledger file")
	}
}
