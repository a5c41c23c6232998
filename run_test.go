package main

import (
	"bytes"
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/go/packages"
)

// 環境変数と slog のデフォルトロガーを変更するため並列実行しない
func Test_IntegrationTest(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		want    map[string]string
	}{
		{
			name: "basic test",
			args: []string{"--config", "testdata/integration/gqlbuilder.yml"},
			want: map[string]string{
				"NewQuery":                   "func(conn querybuilder.ConnectParams, proc *os.Process) *Query",
				"NewMutation":                "func(conn querybuilder.ConnectParams, proc *os.Process) *Mutation",
				"Query.Container":            "func(args *ContainerArgs) *Container",
				"Query.DefaultPlatform":      "func() *querybuilder.Leaf[Platform]",
				"Query.CacheVolume":          "func(args *CacheVolumeArgs) *CacheVolume",
				"Mutation.PruneCache":        "func(args *PruneCacheArgs) *querybuilder.Leaf[bool]",
				"Container.ID":               "func() *querybuilder.Leaf[ContainerID]",
				"Container.From":             "func(args *FromArgs) *Container",
				"Container.WithExec":         "func(args *WithExecArgs) *Container",
				"Container.WithMountedCache": "func(args *WithMountedCacheArgs) *Container",
				"Container.Stdout":           "func() *querybuilder.Leaf[string]",
				"Container.Platform":         "func() *querybuilder.Leaf[Platform]",
				"Container.CreatedAt":        "func() *querybuilder.Leaf[*time.Time]",
				"Container.EnvVariables":     "func() *querybuilder.Leaf[[]EnvVariable]",
				"Container.Fs":               "func() *Directory",
				"Container.Rootfs":           "func() *Directory",
				"Directory.Entries":          "func(args *EntriesArgs) *querybuilder.Leaf[[]string]",
				"Directory.Container":        "func() *Container",
				"CacheVolume.ID":             "func() *querybuilder.Leaf[CacheVolumeID]",
				"EnvVariable.Name":           "func() *querybuilder.Leaf[string]",
				"EnvVariable.Value":          "func() *querybuilder.Leaf[string]",
				"Platform.MarshalGQL":        "func(w io.Writer)",
			},
		},
		{
			name:    "config file does not exist",
			args:    []string{"--config", "testdata/integration/missing.yml"},
			wantErr: "failed to load config file: unable to read config",
		},
		{
			name:    "unexpected argument",
			args:    []string{"generate"},
			wantErr: `unknown command "generate" for "gqlbuilder"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 生成コードを型検査するため、出力先はモジュール内に置く
			dir, err := os.MkdirTemp("testdata/integration", "out-")
			if err != nil {
				t.Fatalf("failed to create output dir: %v", err)
			}
			t.Cleanup(func() { _ = os.RemoveAll(dir) })
			t.Setenv("GQLBUILDER_TEST_OUTPUT", dir)

			var stdout, stderr bytes.Buffer
			err = run(context.Background(), tt.args, &stdout, &stderr)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("run() error = nil, want error")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("run() error = %q, want to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}

			filename := filepath.Join(dir, "bindings_gen.go")
			src, err := os.ReadFile(filename)
			if err != nil {
				t.Fatalf("failed to read generated file: %v", err)
			}

			file, err := parser.ParseFile(token.NewFileSet(), filename, src, parser.ParseComments)
			if err != nil {
				t.Fatalf("generated file does not parse: %v\n%s", err, src)
			}
			if file.Name.Name != "dagger" {
				t.Errorf("package = %s, want dagger", file.Name.Name)
			}
			if diff := cmp.Diff(tt.want, funcSignatures(file)); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
			if errs := typeErrors(t, dir); len(errs) > 0 {
				t.Errorf("generated code does not type-check:\n%s", strings.Join(errs, "\n"))
			}

			for _, want := range []string{
				"// Deprecated: Use rootfs instead.\nfunc (r *Container) Fs() *Directory",
				"// Deprecated: Not supported by the engine.\n\tPlatformWindows Platform = \"WINDOWS\"",
				"// Skip the entrypoint.\n\t//\n\t// Defaults to false.\n\tSkipEntrypoint ",
			} {
				if !bytes.Contains(src, []byte(want)) {
					t.Errorf("generated file does not contain %q", want)
				}
			}

			if !strings.Contains(stderr.String(), "generated bindings") {
				t.Errorf("stderr = %q, want generation log", stderr.String())
			}
		})
	}
}

func Test_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got, want := stdout.String(), "gqlbuilder v"+version+"\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

// typeErrors loads the package in dir, which must be inside this module, and
// returns its type errors.
func typeErrors(t *testing.T, dir string) []string {
	t.Helper()

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
	}, "./"+filepath.ToSlash(dir))
	if err != nil {
		t.Fatalf("failed to load %s: %v", dir, err)
	}

	var errs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e.Error())
		}
	})
	return errs
}

func funcSignatures(file *ast.File) map[string]string {
	sigs := make(map[string]string)
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		name := fd.Name.Name
		if fd.Recv != nil {
			name = strings.TrimPrefix(types.ExprString(fd.Recv.List[0].Type), "*") + "." + name
		}
		sigs[name] = types.ExprString(fd.Type)
	}
	return sigs
}
