package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bbmc/internal/config"
	"github.com/vk/bbmc/internal/ctxlog"
	"github.com/zclconf/go-cty/cty/convert"
)

// translate converts the decoded HCL schema into the agnostic model.
func (l *Loader) translate(ctx context.Context, root *fileRoot, evalCtx *hcl.EvalContext) (*config.Project, error) {
	p := &config.Project{
		Template:     root.Template,
		IncludePaths: root.IncludePaths,
		Extension:    root.Extension,
		Encoding:     root.Encoding,
	}
	if root.Output != nil {
		p.Output = &config.Output{Dir: root.Output.Dir, Workers: root.Output.Workers}
	}
	if root.Run != nil {
		p.Run = &config.Run{
			Interpreter:  root.Run.Interpreter,
			Args:         root.Run.Args,
			Requirements: root.Run.Requirements,
			Env:          root.Run.Env,
		}
	}

	seen := make(map[string]struct{}, len(root.Defines))
	for _, d := range root.Defines {
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("define %q declared more than once", d.Name)
		}
		seen[d.Name] = struct{}{}

		def, err := translateDefine(ctx, d, evalCtx)
		if err != nil {
			return nil, err
		}
		p.Defines = append(p.Defines, def)
	}
	return p, nil
}

// translateDefine evaluates a define's value and, when a type is declared,
// converts the value to it.
func translateDefine(ctx context.Context, d *defineBlock, evalCtx *hcl.EvalContext) (*config.Define, error) {
	logger := ctxlog.FromContext(ctx)

	val, diags := d.Value.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid value for define %q: %w", d.Name, diags)
	}

	if isExprDefined(ctx, d.Type, "type") {
		ty, err := typeExprToCtyType(ctx, d.Type)
		if err != nil {
			return nil, fmt.Errorf("define %q: %w", d.Name, err)
		}
		converted, err := convert.Convert(val, ty)
		if err != nil {
			return nil, fmt.Errorf("define %q: cannot convert %s to %s: %w", d.Name, val.Type().FriendlyName(), ty.FriendlyName(), err)
		}
		if !val.Type().Equals(converted.Type()) {
			logger.Debug("Converted define value.", "define", d.Name, "from", val.Type().FriendlyName(), "to", ty.FriendlyName())
		}
		val = converted
	}

	if _, err := config.PythonLiteral(val); err != nil {
		return nil, fmt.Errorf("define %q: %w", d.Name, err)
	}
	return &config.Define{Name: d.Name, Block: d.Block, Value: val}, nil
}
