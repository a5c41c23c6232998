package querybuilder

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type platform string

func (p platform) MarshalGQL(w io.Writer) {
	_, _ = io.WriteString(w, string(p))
}

type execOpts struct {
	Args []string  `json:"args"`
	Env  *[]string `json:"env,omitempty"`
}

type containerArgs struct {
	ID       *string   `json:"id,omitempty"`
	Platform *platform `json:"platform,omitempty"`
}

type withExecArgs struct {
	Args     []string  `json:"args"`
	Opts     *execOpts `json:"opts,omitempty"`
	Insecure *bool     `json:"insecure,omitempty"`
	Skipped  string    `json:"-"`
	internal string
}

func ptr[T any](v T) *T {
	return &v
}

func TestSelection_Build(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sel  func() *Selection
		want string
	}{
		{
			name: "single field",
			sel:  func() *Selection { return Root("query").Select("version") },
			want: "query{version}",
		},
		{
			name: "nested with arguments",
			sel: func() *Selection {
				q := Root("query").Select("container").Args(&containerArgs{ID: ptr("x")})
				return q.Select("id")
			},
			want: `query{container(id:"x"){id}}`,
		},
		{
			name: "enum argument",
			sel: func() *Selection {
				return Root("query").Select("container").Args(&containerArgs{Platform: ptr(platform("LINUX"))}).Select("id")
			},
			want: "query{container(platform:LINUX){id}}",
		},
		{
			name: "nil arguments",
			sel: func() *Selection {
				var args *containerArgs
				return Root("query").Select("container").Args(args).Select("id")
			},
			want: "query{container{id}}",
		},
		{
			name: "empty arguments",
			sel:  func() *Selection { return Root("query").Select("container").Args(&containerArgs{}).Select("id") },
			want: "query{container{id}}",
		},
		{
			name: "list and input object",
			sel: func() *Selection {
				return Root("query").Select("container").Select("withExec").Args(&withExecArgs{
					Args:     []string{"echo", "hi \"there\""},
					Opts:     &execOpts{Args: []string{}, Env: &[]string{"A=1"}},
					Insecure: ptr(false),
					Skipped:  "ignored",
					internal: "ignored",
				}).Select("stdout")
			},
			want: `query{container{withExec(args:["echo","hi \"there\""],opts:{args:[],env:["A=1"]},insecure:false){stdout}}}`,
		},
		{
			name: "map arguments are sorted",
			sel: func() *Selection {
				return Root("mutation").Select("set").Args(map[string]any{"b": 2, "a": []int32{1}, "c": nil})
			},
			want: "mutation{set(a:[1],b:2)}",
		},
		{
			name: "json marshaler",
			sel: func() *Selection {
				return Root("query").Select("since").Args(map[string]any{"at": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
			},
			want: `query{since(at:"2024-01-02T03:04:05Z")}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.sel().Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelection_SharedPrefix(t *testing.T) {
	t.Parallel()

	container := Root("query").Select("container")
	id := container.Select("id")
	stdout := container.Select("stdout")

	got, err := id.Build()
	require.NoError(t, err)
	assert.Equal(t, "query{container{id}}", got)

	got, err = stdout.Build()
	require.NoError(t, err)
	assert.Equal(t, "query{container{stdout}}", got)

	assert.Equal(t, []string{"container", "stdout"}, stdout.Path())
	assert.Equal(t, "query", stdout.Operation())
}

func TestSelection_ArgsAreCopied(t *testing.T) {
	t.Parallel()

	args := &containerArgs{ID: ptr("first")}
	first := Root("query").Select("container").Args(args).Select("id")

	args.ID = ptr("second")
	second := Root("query").Select("container").Args(args).Select("id")

	got, err := first.Build()
	require.NoError(t, err)
	assert.Equal(t, `query{container(id:"first"){id}}`, got)

	got, err = second.Build()
	require.NoError(t, err)
	assert.Equal(t, `query{container(id:"second"){id}}`, got)
}

func TestSelection_Errors(t *testing.T) {
	t.Parallel()

	_, err := Root("query").Build()
	require.ErrorIs(t, err, ErrEmptySelection)

	_, err = Root("query").Select("container").Args(nil).Select("id").Build()
	require.NoError(t, err)

	_, err = Root("query").Select("container").Args(42).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arguments of container")

	_, err = Root("query").Select("container").Args(map[int]string{1: "x"}).Build()
	require.Error(t, err)

	_, err = Root("query").Select("container").Args(map[string]any{"f": func() {}}).Build()
	require.Error(t, err)
}

func TestLeaf_Query(t *testing.T) {
	t.Parallel()

	conn := ConnectParams{Port: 8080, SessionToken: "token"}
	assert.Equal(t, "http://127.0.0.1:8080/query", conn.URL())

	leaf := &Leaf[string]{Conn: conn, Selection: Root("query").Select("container").Select("stdout")}
	got, err := leaf.Query()
	require.NoError(t, err)
	assert.Equal(t, "query{container{stdout}}", got)

	_, err = (&Leaf[string]{}).Query()
	require.ErrorIs(t, err, ErrEmptySelection)
}
