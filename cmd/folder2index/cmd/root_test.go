package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/folder2index/pkg/version"
)

// run executes the root command with args and returns the exit code and
// both output streams.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	cmd := NewRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	code := executeContext(context.Background(), cmd)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func documentIDs(t *testing.T, index string) []string {
	t.Helper()
	idx, err := bleve.Open(index)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = 100
	res, err := idx.Search(req)
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}

func TestRootCmd_ShowsHelp(t *testing.T) {
	// Given: a root command

	// When: executing with --help
	code, stdout, _ := run(t, "--help")

	// Then: it shows the flags
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "--index")
	assert.Contains(t, stdout, "--folder")
	assert.Contains(t, stdout, "--encoding")
	assert.Contains(t, stdout, "--use-tika")
}

func TestRootCmd_VersionFlag(t *testing.T) {
	code, stdout, _ := run(t, "--version")

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "folder2index version "+version.Version+"\n", stdout)
}

func TestRootCmd_MissingIndexIsArgumentError(t *testing.T) {
	// Given: no --index option
	folder := t.TempDir()

	// When: executing
	code, stdout, stderr := run(t, "--folder", folder)

	// Then: the error and usage are printed to stdout with exit code 2
	assert.Equal(t, ExitArgument, code)
	assert.Contains(t, stdout, `Wrong arguments: option "--index" is required`)
	assert.Contains(t, stdout, "Usage: folder2index --index DIR --folder DIR [flags] [folder...]")
	assert.Contains(t, stdout, "--encoding")
	assert.Empty(t, stderr)
}

func TestRootCmd_MissingFolderIsArgumentError(t *testing.T) {
	code, stdout, _ := run(t, "--index", filepath.Join(t.TempDir(), "index"))

	assert.Equal(t, ExitArgument, code)
	assert.Contains(t, stdout, `Wrong arguments: option "--folder" is required`)
}

func TestRootCmd_UnknownFlagIsArgumentError(t *testing.T) {
	code, stdout, _ := run(t, "--bogus")

	assert.Equal(t, ExitArgument, code)
	assert.Contains(t, stdout, "Wrong arguments: unknown flag: --bogus")
	assert.Contains(t, stdout, "Usage: folder2index")
}

func TestRootCmd_UnknownCharsetIsArgumentError(t *testing.T) {
	// Given: a charset the IANA registry does not know
	folder := t.TempDir()
	index := filepath.Join(t.TempDir(), "index")

	// When: executing in plain-text mode
	code, stdout, _ := run(t, "--index", index, "--folder", folder, "--encoding", "no-such-charset")

	// Then: the run is rejected before the index is created
	assert.Equal(t, ExitArgument, code)
	assert.Contains(t, stdout, `Wrong arguments: unsupported charset "no-such-charset"`)
	assert.NoDirExists(t, index)
}

func TestRootCmd_UnknownBackendIsArgumentError(t *testing.T) {
	code, stdout, _ := run(t, "--index", filepath.Join(t.TempDir(), "index"),
		"--folder", t.TempDir(), "--backend", "lucene")

	assert.Equal(t, ExitArgument, code)
	assert.Contains(t, stdout, "Wrong arguments: backend must be one of")
}

func TestRootCmd_PlainTextRun(t *testing.T) {
	// Given: a folder with one text file
	folder := t.TempDir()
	file := filepath.Join(folder, "a.txt")
	writeFile(t, file, "hello")
	index := filepath.Join(t.TempDir(), "index")

	// When: executing
	code, stdout, stderr := run(t, "--index", index, "--folder", folder)

	// Then: the file is indexed and the index location is printed
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "Indexing: "+file+"\nIndex created: "+index+"\n", stdout)
	assert.Empty(t, stderr)
	assert.Equal(t, []string{file}, documentIDs(t, index))
}

func TestRootCmd_MultipleRoots(t *testing.T) {
	// Given: three folders given through --folder, --folders and a positional argument
	base := t.TempDir()
	var files []string
	for _, name := range []string{"one", "two", "three"} {
		file := filepath.Join(base, name, name+".txt")
		writeFile(t, file, name)
		files = append(files, file)
	}
	index := filepath.Join(t.TempDir(), "index")

	// When: executing
	code, stdout, _ := run(t, "--index", index,
		"--folder", filepath.Join(base, "one"),
		"--folders", filepath.Join(base, "two")+","+filepath.Join(base, "three"))

	// Then: all files are indexed in root order
	require.Equal(t, ExitOK, code)
	assert.Equal(t,
		"Indexing: "+files[0]+"\nIndexing: "+files[1]+"\nIndexing: "+files[2]+"\nIndex created: "+index+"\n",
		stdout)
	assert.ElementsMatch(t, files, documentIDs(t, index))
}

func TestRootCmd_PositionalRoots(t *testing.T) {
	folder := t.TempDir()
	file := filepath.Join(folder, "p.txt")
	writeFile(t, file, "positional")
	index := filepath.Join(t.TempDir(), "index")

	code, _, _ := run(t, "--index", index, folder)

	require.Equal(t, ExitOK, code)
	assert.Equal(t, []string{file}, documentIDs(t, index))
}

func TestRootCmd_ExtractionRun(t *testing.T) {
	// Given: an HTML page
	folder := t.TempDir()
	writeFile(t, filepath.Join(folder, "page.html"),
		"<html><head><title>Hi</title></head><body>Body text</body></html>")
	index := filepath.Join(t.TempDir(), "index")

	// When: executing with --use-tika
	code, stdout, _ := run(t, "--index", index, "--folder", folder, "--use-tika")

	// Then: the parsed block is printed
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Parsed: page.html\n")
	assert.Contains(t, stdout, "  > Title: 2 characters.\n")
	assert.Contains(t, stdout, "Index created: "+index+"\n")
}

func TestRootCmd_DecodeErrorIsFatal(t *testing.T) {
	// Given: a text file that is not valid UTF-8
	folder := t.TempDir()
	writeFile(t, filepath.Join(folder, "bad.txt"), "\xff\xfe")
	index := filepath.Join(t.TempDir(), "index")

	// When: executing in plain-text mode
	code, stdout, stderr := run(t, "--index", index, "--folder", folder)

	// Then: the run aborts with exit code 1 and the error on stderr
	assert.Equal(t, ExitFailure, code)
	assert.NotContains(t, stdout, "Index created")
	assert.Contains(t, stderr, "Error: ")
	assert.Contains(t, stderr, "ERR_301_DECODE_FAILED")
}

func TestRootCmd_EncodingFlag(t *testing.T) {
	folder := t.TempDir()
	file := filepath.Join(folder, "latin.txt")
	writeFile(t, file, "caf\xe9")
	index := filepath.Join(t.TempDir(), "index")

	code, _, _ := run(t, "--index", index, "--folder", folder, "--encoding", "ISO-8859-1")

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{file}, documentIDs(t, index))
}

func TestRootCmd_ConfigFile(t *testing.T) {
	// Given: a config file naming the index, the folder and the sqlite backend
	folder := t.TempDir()
	writeFile(t, filepath.Join(folder, "a.txt"), "from config")
	index := filepath.Join(t.TempDir(), "index")
	cfgPath := filepath.Join(t.TempDir(), "folder2index.yaml")
	writeFile(t, cfgPath, "index: "+index+"\nfolders:\n  - "+folder+"\nbackend: sqlite\n")

	// When: executing with only --config
	code, stdout, _ := run(t, "--config", cfgPath)

	// Then: the configured values are used
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Index created: "+index)
	assert.FileExists(t, filepath.Join(index, "index.db"))
}

func TestRootCmd_FlagsOverrideConfigFile(t *testing.T) {
	// Given: a config file with a bad backend
	folder := t.TempDir()
	index := filepath.Join(t.TempDir(), "index")
	cfgPath := filepath.Join(t.TempDir(), "folder2index.yaml")
	writeFile(t, cfgPath, "backend: lucene\n")

	// When: the flag names a valid one
	code, _, _ := run(t, "--config", cfgPath, "--index", index, "--folder", folder, "--backend", "bleve")

	// Then: the flag wins
	assert.Equal(t, ExitOK, code)
}

func TestRootCmd_MissingConfigFileIsArgumentError(t *testing.T) {
	code, stdout, _ := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, ExitArgument, code)
	assert.Contains(t, stdout, "Wrong arguments: failed to read config file")
}

func TestRootsValue_KeepsOrder(t *testing.T) {
	var roots []string
	single := &rootsValue{roots: &roots}
	split := &rootsValue{roots: &roots, split: true}

	require.NoError(t, single.Set("a,b"))
	require.NoError(t, split.Set("c, d"))
	require.NoError(t, single.Set("e"))

	assert.Equal(t, []string{"a,b", "c", "d", "e"}, roots)
	assert.Equal(t, "a,b,c,d,e", single.String())
	assert.Equal(t, "DIR", split.Type())
}

func TestRootCmd_ProfileFlags(t *testing.T) {
	// Given: a small run with CPU and memory profiling
	folder := t.TempDir()
	writeFile(t, filepath.Join(folder, "a.txt"), "profiled")
	index := filepath.Join(t.TempDir(), "index")
	profiles := t.TempDir()
	cpu := filepath.Join(profiles, "cpu.prof")
	mem := filepath.Join(profiles, "mem.prof")

	// When: executing
	code, _, _ := run(t, "--index", index, "--folder", folder, "--profile-cpu", cpu, "--profile-mem", mem)

	// Then: both profiles are written
	assert.Equal(t, ExitOK, code)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}
