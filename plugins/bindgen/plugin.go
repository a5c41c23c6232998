// Package bindgen は introspection スキーマから fluent なクエリビルダーの Go バインディングを生成する。
//
// オブジェクト型ごとに構造体とフィールドごとのアクセサメソッドを生成し、
// 引数は <Field>Args 構造体として渡す。生成されたコードは querybuilder パッケージを使って
// クエリドキュメントを組み立てる。
package bindgen

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	gqlgenconfig "github.com/99designs/gqlgen/codegen/config"
	"github.com/99designs/gqlgen/plugin"

	"github.com/Yamashou/gqlbuilder/codegen"
	"github.com/Yamashou/gqlbuilder/config"
)

var _ plugin.ConfigMutator = &Plugin{}

// Plugin はバインディングファイルを生成する gqlgen プラグインインターフェースを実装する。
type Plugin struct {
	cfg *config.Config
}

// New は新しい bindgen プラグインインスタンスを作成する。
// cfg.Introspection は LoadSchema で読み込み済みである必要がある。
func New(cfg *config.Config) *Plugin {
	return &Plugin{cfg: cfg}
}

// Name は gqlgen のプラグインシステム用にこのプラグインの名前を返す。
func (p *Plugin) Name() string {
	return "bindgen"
}

// MutateConfig は gqlgen の ConfigMutator インターフェースを実装する。
// バインディングを生成し、output に指定されたファイルへ書き込む。
// 生成に失敗した場合、既存のファイルは変更されない。
func (p *Plugin) MutateConfig(_ *gqlgenconfig.Config) error {
	if p.cfg.Introspection == nil {
		return errors.New("schema is not loaded")
	}

	src, err := codegen.Generate(p.cfg.Introspection, p.cfg.GeneratorOptions())
	if err != nil {
		return fmt.Errorf("generating bindings: %w", err)
	}

	filename := p.cfg.Output.Filename
	if err := writeFile(filename, src); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}

	slog.Info("generated bindings", "plugin", p.Name(), "file", filename, "bytes", len(src))

	return nil
}

// writeFile は一時ファイル経由で書き込み、途中まで書かれたファイルを残さない。
func writeFile(filename string, src []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filename)
}
