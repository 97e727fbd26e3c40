// Package typegen renders a TypeScript schema module describing the keys of
// a local env file, split into public and private halves.
package typegen

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/exclude"
)

// Schema flavors.
const (
	Valibot = "valibot"
	Zod     = "zod"
	None    = "none"
)

// Scope says where a variable may be exposed.
type Scope string

// Scopes.
const (
	Public  Scope = "public"
	Private Scope = "private"
)

// Var is one variable destined for the generated module.
type Var struct {
	Key   string
	Value string
	Scope Scope
}

// Vars classifies values by publicPrefixes and returns them sorted by key.
// Tool-internal keys are dropped.
func Vars(values map[string]string, publicPrefixes []string) []Var {
	vars := make([]Var, 0, len(values))
	for key, value := range values {
		if exclude.Builtin.Match(key) {
			continue
		}
		scope := Private
		for _, prefix := range publicPrefixes {
			if prefix != "" && strings.HasPrefix(key, prefix) {
				scope = Public
				break
			}
		}
		vars = append(vars, Var{Key: key, Value: value, Scope: scope})
	}
	slices.SortFunc(vars, func(a, b Var) int { return strings.Compare(a.Key, b.Key) })
	return vars
}

// Count returns the number of public and private vars.
func Count(vars []Var) (public, private int) {
	for _, v := range vars {
		if v.Scope == Public {
			public++
		} else {
			private++
		}
	}
	return public, private
}

const envDtsHint = `// env.d.ts
// import type { PrivateEnv, PublicEnv } from "@/lib/env"
// declare global {
//
//   namespace NodeJS {
//     interface ProcessEnv extends PrivateEnv {}
//   }
//
//   interface ImportMetaEnv extends PublicEnv {}
// }
`

var templates = map[string]string{
	Valibot: `import * as v from 'valibot'

export const publicEnvSchema = v.object({
{{- range .Public}}
  {{.Key}}: {{validator .Key}},
{{- end}}
})

export const privateEnvSchema = v.object({
{{- range .Private}}
  {{.Key}}: {{validator .Key}},
{{- end}}
})

export type PublicEnv = v.InferOutput<typeof publicEnvSchema>
export type PrivateEnv = v.InferOutput<typeof privateEnvSchema>

`,
	Zod: `import { z } from 'zod'

export const publicEnvSchema = z.object({
{{- range .Public}}
  {{.Key}}: {{validator .Key}},
{{- end}}
})

export const privateEnvSchema = z.object({
{{- range .Private}}
  {{.Key}}: {{validator .Key}},
{{- end}}
})

export type PublicEnv = z.infer<typeof publicEnvSchema>
export type PrivateEnv = z.infer<typeof privateEnvSchema>

`,
	None: `export type PublicEnv = {
{{- range .Public}}
  {{.Key}}: string
{{- end}}
}

export type PrivateEnv = {
{{- range .Private}}
  {{.Key}}: string
{{- end}}
}

`,
}

// Generate renders vars in the given schema flavor. An empty flavor means valibot.
func Generate(vars []Var, schema string) (string, error) {
	if schema == "" {
		schema = Valibot
	}
	text, ok := templates[schema]
	if !ok {
		return "", errors.NewValidationError("schema", schema, "must be one of valibot, zod, none")
	}

	tmpl, err := template.New(schema).Funcs(template.FuncMap{
		"validator": func(key string) string { return validator(key, schema) },
	}).Parse(text)
	if err != nil {
		return "", errors.WrapParse("template", schema, err)
	}

	data := struct {
		Public, Private []Var
	}{}
	for _, v := range vars {
		if v.Scope == Public {
			data.Public = append(data.Public, v)
		} else {
			data.Private = append(data.Private, v)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapParse("template", schema, err)
	}
	buf.WriteString(envDtsHint)
	return buf.String(), nil
}

// validator picks a schema expression from the key name alone.
func validator(key, schema string) string {
	lower := strings.ToLower(key)
	isURL := strings.Contains(lower, "url") || strings.Contains(lower, "endpoint")

	switch {
	case schema == Zod && isURL:
		return "z.string().url()"
	case schema == Zod:
		return "z.string()"
	case isURL:
		return "v.pipe(v.string(), v.url())"
	default:
		return "v.string()"
	}
}

// Write renders vars and saves them to output, creating parent directories.
func Write(fs afero.Fs, output string, vars []Var, schema string) error {
	content, err := Generate(vars, schema)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}
	if err := afero.WriteFile(fs, output, []byte(content), 0o644); err != nil {
		return errors.WrapIO("write", output, err)
	}
	return nil
}
