// Command loxcmp is a golden-output test runner for the lox
// interpreter: it runs the built lox binary over every fixture under
// testdata/golden and diffs stdout/stderr/exit code against checked-in
// *.golden files, side by side, the way a clox-comparison harness
// diffs two interpreters against each other.
//
// Fixtures are *.lox files. For fixture.lox:
//
//	fixture.golden      expected stdout (required)
//	fixture.golden.err  expected stderr (optional, default "")
//	fixture.golden.exit expected exit code (optional, default "0")
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

type TestCase struct {
	Name     string
	Expected *TestResult
	Actual   *TestResult
}

type TestResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

type TestSuite struct {
	Name  string
	Cases []TestCase
}

type TestFramework struct {
	Target string // command used to run the lox binary under test
	Dir    string // directory of *.lox fixtures
	Suites []*TestSuite
	Total  int
	Failed []*TestCase
}

var (
	loxBinary    = flag.String("lox", "./lox", "path to the lox binary under test")
	fixturesDir  = flag.String("dir", "testdata/golden", "directory of .lox golden fixtures")
	noFailStderr = flag.Bool("no-fail-stderr", false, "stderr mismatch is not a failure")
)

func main() {
	flag.Parse()

	tf := TestFramework{Target: *loxBinary, Dir: *fixturesDir}
	tf.collectSuites(tf.Dir)
	slices.SortFunc(tf.Suites, func(a, b *TestSuite) int {
		return strings.Compare(a.Name, b.Name)
	})

	tf.executeTests()
	tf.PrintSummary()

	if len(tf.Failed) > 0 {
		os.Exit(1)
	}
}

// collectSuites groups fixtures one directory deep, mirroring the
// common golden-test layout: files directly in dir form a "Top
// Level" suite, each immediate subdirectory its own named suite.
func (tf *TestFramework) collectSuites(dir string) {
	var suites []*TestSuite
	topLevel := TestSuite{Name: "Top Level"}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			suites = append(suites, collectSuite(path.Join(dir, entry.Name())))
		} else if strings.HasSuffix(entry.Name(), ".lox") {
			topLevel.Cases = append(topLevel.Cases, TestCase{Name: entry.Name()})
		}
	}

	if len(topLevel.Cases) > 0 {
		suites = append(suites, &topLevel)
	}
	tf.Suites = suites
}

func collectSuite(dir string) *TestSuite {
	suite := &TestSuite{Name: path.Base(dir)}
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".lox") {
			suite.Cases = append(suite.Cases, TestCase{Name: entry.Name()})
		}
	}
	return suite
}

const WIDTH = 120

func (tf *TestFramework) executeTests() {
	first := true

	for _, suite := range tf.Suites {
		if first {
			first = false
		} else {
			fmt.Println()
		}

		columns := fmt.Sprintf("%12s %8s", "exit", "time")
		spacing := strings.Repeat(" ", WIDTH-len(suite.Name)-len(columns))
		fmt.Printf("%s%s%s\n", suite.Name, spacing, columns)

		dir := tf.Dir
		if suite.Name != "Top Level" {
			dir = path.Join(tf.Dir, suite.Name)
		}

		prevFailed := false
		for i, testCase := range suite.Cases {
			fixture := path.Join(dir, testCase.Name)

			tc := &suite.Cases[i]
			tc.Expected = loadGolden(fixture)
			tc.Actual = executeFixture(tf.Target, fixture)

			prevFailed = tc.PrintResult(prevFailed)

			tf.Total++
			if prevFailed {
				tf.Failed = append(tf.Failed, tc)
			}
		}
	}
}

// loadGolden reads fixture.golden (stdout), fixture.golden.err
// (stderr, default ""), and fixture.golden.exit (exit code, default
// "0") for a fixture path ending in ".lox".
func loadGolden(fixture string) *TestResult {
	base := strings.TrimSuffix(fixture, ".lox")

	stdout, err := os.ReadFile(base + ".golden")
	if err != nil {
		fmt.Fprintf(os.Stderr, "missing golden file for %s: %v\n", fixture, err)
		os.Exit(1)
	}

	stderr, _ := os.ReadFile(base + ".golden.err")

	exitCode := 0
	if raw, err := os.ReadFile(base + ".golden.exit"); err == nil {
		exitCode, _ = strconv.Atoi(strings.TrimSpace(string(raw)))
	}

	return &TestResult{Stdout: string(stdout), Stderr: string(stderr), ExitCode: exitCode}
}

func executeFixture(binary, fixture string) *TestResult {
	abs, err := filepath.Abs(fixture)
	if err != nil {
		abs = fixture
	}

	cmd := exec.Command(binary, abs)
	stdout := strings.Builder{}
	stderr := strings.Builder{}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			fmt.Fprintf(os.Stderr, "execution error: %v\n", err)
		}
	}

	return &TestResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode, Duration: duration}
}

var divider = strings.Repeat("-", WIDTH)
var headerSpacing = strings.Repeat(" ", (WIDTH/2)-len("Expected stdout"))

func (tc TestCase) summaryVars() (string, bool) {
	succeeded := tc.Expected.ExitCode == tc.Actual.ExitCode &&
		tc.Expected.Stdout == tc.Actual.Stdout &&
		(tc.Expected.Stderr == tc.Actual.Stderr || *noFailStderr)

	result := color.GreenString("passed")
	if !succeeded {
		result = color.RedString("failed")
	}

	timing := fmt.Sprintf("%12d %7s", tc.Actual.ExitCode, tc.Actual.Duration)
	resultSpacing := strings.Repeat(" ", WIDTH-len("  [passed] ")-len(tc.Name)-len(timing))

	summary := fmt.Sprintf("  [%s] %s%s%s", result, tc.Name, resultSpacing, timing)
	return summary, !succeeded
}

func (tc TestCase) PrintResult(prevFailed bool) bool {
	summary, failed := tc.summaryVars()

	if failed && !prevFailed {
		fmt.Println(divider)
	}
	fmt.Println(summary)

	if tc.Expected.ExitCode != tc.Actual.ExitCode {
		fmt.Printf("Expected exit code %d, but got %d\n", tc.Expected.ExitCode, tc.Actual.ExitCode)
	}
	if tc.Expected.Stdout != tc.Actual.Stdout {
		fmt.Printf("Expected stdout%sActual stdout\n", headerSpacing)
		printDiff(tc.Expected.Stdout, tc.Actual.Stdout)
	}
	if !*noFailStderr && tc.Expected.Stderr != tc.Actual.Stderr {
		fmt.Printf("Expected stderr%sActual stderr\n", headerSpacing)
		printDiff(tc.Expected.Stderr, tc.Actual.Stderr)
	}

	if failed {
		fmt.Println(divider)
	}
	return failed
}

func printDiff(expected, actual string) {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		spaces := (WIDTH / 2) - len(e)
		if spaces < 0 {
			spaces = 2
		}
		fmt.Printf("%s%s%s\n", e, strings.Repeat(" ", spaces), a)
	}
}

func (tf TestFramework) PrintSummary() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", WIDTH))

	fmt.Println("Test summary")
	fmt.Printf("Tests run: %d\n", tf.Total)
	fmt.Printf("Succeeded: %d\n", tf.Total-len(tf.Failed))
	fmt.Printf("Failed:    %d\n", len(tf.Failed))

	if len(tf.Failed) > 0 {
		fmt.Println()
		fmt.Println("Failed tests:")
		for _, tc := range tf.Failed {
			fmt.Printf("  %s\n", tc.Name)
		}
	}
}
