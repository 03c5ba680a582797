package mask

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		field  Field
		want   Kind
		wantOK bool
	}{
		{name: "explicit industria id", field: Field{ID: "industriaCNPJ"}, want: CNPJ, wantOK: true},
		{name: "explicit pj id", field: Field{ID: "pjCnpj"}, want: CNPJ, wantOK: true},
		{name: "cpf by name", field: Field{Name: "cpf"}, want: CPF, wantOK: true},
		{name: "cpf camel id", field: Field{ID: "clienteCpf"}, want: CPF, wantOK: true},
		{name: "rg snake name", field: Field{Name: "documento_rg"}, want: RG, wantOK: true},
		{name: "rg upper id", field: Field{ID: "RG"}, want: RG, wantOK: true},
		{name: "cnpj wins over cpf", field: Field{Name: "cpf_cnpj"}, want: CNPJ, wantOK: true},
		{name: "acronym followed by word", field: Field{ID: "CNPJField"}, want: CNPJ, wantOK: true},
		{name: "placeholder words", field: Field{ID: "doc", Placeholder: "Digite seu CPF"}, want: CPF, wantOK: true},
		{name: "placeholder cpf shape", field: Field{ID: "doc", Placeholder: "000.000.000-00"}, want: CPF, wantOK: true},
		{name: "placeholder rg shape", field: Field{ID: "doc", Placeholder: "00.000.000-00"}, want: RG, wantOK: true},
		{name: "placeholder cnpj shape", field: Field{ID: "doc", Placeholder: "00.000.000/0000-00"}, want: CNPJ, wantOK: true},
		{name: "explicit id lower case", field: Field{ID: "industriacnpj"}, want: CNPJ, wantOK: true},
		{name: "explicit id upper case", field: Field{ID: "INDUSTRIACNPJ"}, want: CNPJ, wantOK: true},
		{name: "lower case compound cpf", field: Field{Name: "documentocpf"}, want: CPF, wantOK: true},
		{name: "lower case compound cnpj", field: Field{Name: "empresacnpj"}, want: CNPJ, wantOK: true},
		{name: "lower case cnpj wins over cpf", field: Field{Name: "cpfcnpj"}, want: CNPJ, wantOK: true},
		{name: "rg inside word is not a match", field: Field{Name: "cargo"}, wantOK: false},
		{name: "rg inside compound is not a match", field: Field{Name: "orgaoemissor"}, wantOK: false},
		{name: "unrelated", field: Field{ID: "email", Placeholder: "voce@exemplo.com"}, wantOK: false},
		{name: "empty", field: Field{}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"industria", "cnpj"}, tokens("industriaCNPJ"))
	assert.Equal(t, []string{"cnpj", "field"}, tokens("CNPJField"))
	assert.Equal(t, []string{"nr", "cpf", "2"}, tokens("nr-cpf2"))
	assert.Empty(t, tokens("  ._- "))
}

func TestBinder_AttachOnce(t *testing.T) {
	b := NewBinder()

	kind, ok := b.Attach(Field{ID: "cpf"})
	require.True(t, ok)
	assert.Equal(t, CPF, kind)

	_, ok = b.Attach(Field{ID: "cpf"})
	assert.False(t, ok, "second attach must be rejected")
	assert.Equal(t, 1, b.Len())

	_, ok = b.Attach(Field{ID: "email"})
	assert.False(t, ok)

	_, ok = b.Attach(Field{})
	assert.False(t, ok)
}

func TestBinder_NameFallbackKey(t *testing.T) {
	b := NewBinder()
	_, ok := b.Attach(Field{Name: "cnpj"})
	require.True(t, ok)

	kind, ok := b.Attached("cnpj")
	require.True(t, ok)
	assert.Equal(t, CNPJ, kind)
}

func TestBinder_AttachAs(t *testing.T) {
	b := NewBinder()
	assert.True(t, b.AttachAs("documento", RG))
	assert.False(t, b.AttachAs("documento", CPF))
	assert.False(t, b.AttachAs("outro", Kind("PIS")))
	assert.False(t, b.AttachAs("", CPF))
}

func TestBinder_ApplyAndDetach(t *testing.T) {
	b := NewBinder()
	require.True(t, b.AttachAs("rg", RG))

	got, ok := b.Apply("rg", "1234567890")
	assert.True(t, ok)
	assert.Equal(t, "12.345.678-90", got)

	got, ok = b.Apply("nome", "Maria 123")
	assert.False(t, ok)
	assert.Equal(t, "Maria 123", got)

	assert.True(t, b.Detach("rg"))
	assert.False(t, b.Detach("rg"))
	_, ok = b.Apply("rg", "1234567890")
	assert.False(t, ok)
}

func TestBinder_ApplyAll(t *testing.T) {
	b := NewBinder()
	require.True(t, b.AttachAs("cpf", CPF))
	require.True(t, b.AttachAs("cnpj", CNPJ))

	in := map[string]string{
		"cpf":  "12345678901",
		"cnpj": "12345678000123",
		"nome": "Maria",
	}
	out := b.ApplyAll(in)

	assert.Equal(t, map[string]string{
		"cpf":  "123.456.789-01",
		"cnpj": "12.345.678/0001-23",
		"nome": "Maria",
	}, out)
	assert.Equal(t, "12345678901", in["cpf"], "input must not be modified")
}

func TestBinder_ConcurrentAttach(t *testing.T) {
	b := NewBinder()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := b.Attach(Field{ID: "cpf"}); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
