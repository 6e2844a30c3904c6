package journal

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/ir"
)

// requestArgs converts a request's arguments into canonical IR.
// Only the fields that are set appear in the object.
func requestArgs(req investigation.Request) ir.Object {
	args := ir.Object{}
	if req.Target != uuid.Nil {
		args["target"] = ir.String(req.Target.String())
	}
	if len(req.Claims) > 0 {
		claims := make([]string, len(req.Claims))
		for i, c := range req.Claims {
			claims[i] = string(c)
		}
		args["claims"] = ir.Strings(claims)
	}
	if len(req.Evidence) > 0 {
		evidence := make([]string, len(req.Evidence))
		for i, id := range req.Evidence {
			evidence[i] = id.String()
		}
		args["evidence"] = ir.Strings(evidence)
	}
	for key, val := range map[string]string{
		"approach":  string(req.Approach),
		"theme":     string(req.Theme),
		"operation": string(req.Operation),
		"warrant":   string(req.Warrant),
	} {
		if val != "" {
			args[key] = ir.String(val)
		}
	}
	return args
}

// marshalCanonical converts an IR value to canonical JSON TEXT for storage.
func marshalCanonical(v ir.Value) (string, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return string(data), nil
}

// unmarshalRequest rebuilds a request from its stored action name and args.
func unmarshalRequest(action, data string) (investigation.Request, error) {
	a, err := investigation.ParseAction(action)
	if err != nil {
		return investigation.Request{}, err
	}
	req := investigation.Request{Action: a}

	v, err := ir.ParseValue([]byte(data))
	if err != nil {
		return req, fmt.Errorf("unmarshal args: %w", err)
	}
	args, ok := v.(ir.Object)
	if !ok {
		return req, fmt.Errorf("unmarshal args: expected object, got %T", v)
	}

	if t, ok := args["target"]; ok {
		s, ok := t.(ir.String)
		if !ok {
			return req, fmt.Errorf("unmarshal args: target is %T", t)
		}
		if req.Target, err = uuid.Parse(string(s)); err != nil {
			return req, fmt.Errorf("unmarshal args: target: %w", err)
		}
	}

	claims, err := stringArray(args, "claims")
	if err != nil {
		return req, err
	}
	for _, c := range claims {
		claim, err := deduction.ParseClaim(c)
		if err != nil {
			return req, fmt.Errorf("unmarshal args: %w", err)
		}
		req.Claims = append(req.Claims, claim)
	}

	evidence, err := stringArray(args, "evidence")
	if err != nil {
		return req, err
	}
	for _, e := range evidence {
		id, err := uuid.Parse(e)
		if err != nil {
			return req, fmt.Errorf("unmarshal args: evidence: %w", err)
		}
		req.Evidence = append(req.Evidence, id)
	}

	if req.Approach, err = enumField(args, "approach", investigation.ParseApproach); err != nil {
		return req, err
	}
	if req.Theme, err = enumField(args, "theme", investigation.ParseTheme); err != nil {
		return req, err
	}
	if req.Operation, err = enumField(args, "operation", deduction.ParseOperation); err != nil {
		return req, err
	}
	if req.Warrant, err = enumField(args, "warrant", deduction.ParseWarrant); err != nil {
		return req, err
	}
	return req, nil
}

// enumField parses an optional string argument with parse.
func enumField[T ~string](obj ir.Object, key string, parse func(string) (T, error)) (T, error) {
	v, ok := obj[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(ir.String)
	if !ok {
		return "", fmt.Errorf("unmarshal args: %s is %T", key, v)
	}
	out, err := parse(string(s))
	if err != nil {
		return "", fmt.Errorf("unmarshal args: %w", err)
	}
	return out, nil
}

func stringArray(obj ir.Object, key string) ([]string, error) {
	v, ok := obj[key]
	if !ok {
		return nil, nil
	}
	arr, ok := v.(ir.Array)
	if !ok {
		return nil, fmt.Errorf("unmarshal args: %s is %T", key, v)
	}
	out := make([]string, len(arr))
	for i, elem := range arr {
		s, ok := elem.(ir.String)
		if !ok {
			return nil, fmt.Errorf("unmarshal args: %s[%d] is %T", key, i, elem)
		}
		out[i] = string(s)
	}
	return out, nil
}

func uuidArray(ids []uuid.UUID) ir.Array {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return ir.Strings(out)
}

func parseUUIDArray(data string) ([]uuid.UUID, error) {
	v, err := ir.ParseValue([]byte(data))
	if err != nil {
		return nil, err
	}
	arr, ok := v.(ir.Array)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}
	var out []uuid.UUID
	for i, elem := range arr {
		s, ok := elem.(ir.String)
		if !ok {
			return nil, fmt.Errorf("element %d is %T", i, elem)
		}
		id, err := uuid.Parse(string(s))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseStringMap(data string) (map[string]string, error) {
	v, err := ir.ParseValue([]byte(data))
	if err != nil {
		return nil, err
	}
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", v)
	}
	if len(obj) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(obj))
	for k, elem := range obj {
		s, ok := elem.(ir.String)
		if !ok {
			return nil, fmt.Errorf("metadata %q is %T", k, elem)
		}
		out[k] = string(s)
	}
	return out, nil
}
