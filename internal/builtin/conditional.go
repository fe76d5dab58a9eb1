package builtin

import (
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// ConditionalKeyword implements "if"/"then"/"else": "then" applies only when
// the instance validates against "if", "else" only when it doesn't. "then"
// and "else" are ignored in the absence of "if" (§name-if).
type ConditionalKeyword struct {
	ifTarget           keyword.Handle
	thenTarget         keyword.Handle
	elseTarget         keyword.Handle
	hasThen, hasElse   bool
}

func (k *ConditionalKeyword) Kind() []string { return []string{"if", "then", "else"} }

func (k *ConditionalKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	if !isSchemaLike(obj["if"]) {
		return nil
	}
	out := []pointer.Pointer{{"if"}}
	if isSchemaLike(obj["then"]) {
		out = append(out, pointer.Pointer{"then"})
	}
	if isSchemaLike(obj["else"]) {
		out = append(out, pointer.Pointer{"else"})
	}
	return out
}

func (k *ConditionalKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if !isSchemaLike(obj["if"]) {
		return nil, false
	}
	ifH, ok := lookupChild(ctx, pointer.Pointer{"if"})
	if !ok {
		return nil, false
	}
	out := &ConditionalKeyword{ifTarget: ifH}
	if isSchemaLike(obj["then"]) {
		if h, ok := lookupChild(ctx, pointer.Pointer{"then"}); ok {
			out.thenTarget, out.hasThen = h, true
		}
	}
	if isSchemaLike(obj["else"]) {
		if h, ok := lookupChild(ctx, pointer.Pointer{"else"}); ok {
			out.elseTarget, out.hasElse = h, true
		}
	}
	return out, true
}

func (k *ConditionalKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)

	ifResult, err := ctx.EvaluateHandle(k.ifTarget, instance, nil, pointer.Pointer{"if"})
	if err != nil {
		return nil, err
	}
	spliceChildren(container, ifResult)

	if ifResult != nil && ifResult.Valid {
		if !k.hasThen {
			return container, nil
		}
		thenResult, err := ctx.EvaluateHandle(k.thenTarget, instance, nil, pointer.Pointer{"then"})
		if err != nil {
			return nil, err
		}
		container.Append(thenResult)
		return container, nil
	}

	if !k.hasElse {
		return container, nil
	}
	elseResult, err := ctx.EvaluateHandle(k.elseTarget, instance, nil, pointer.Pointer{"else"})
	if err != nil {
		return nil, err
	}
	container.Append(elseResult)
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*ConditionalKeyword)(nil)
