package descriptor

import "fmt"

// toDescriptor converts the raw field map produced by Parse into a typed
// Descriptor, validating each field's shape against what spec.md §3
// describes.
func toDescriptor(fields map[string]any) (*Descriptor, error) {
	d := &Descriptor{}
	var err error

	if v, ok := fields["package"]; ok {
		if d.Package, err = asString("package", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["libname"]; ok {
		if d.Libname, err = asString("libname", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["imports"]; ok {
		if d.Imports, err = asStringList("imports", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["exports"]; ok {
		if d.Exports, err = asStringList("exports", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["apps"]; ok {
		if d.Apps, err = asStringList("apps", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["install"]; ok {
		if d.Install, err = asStringList("install", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["ldflags"]; ok {
		if d.LDFlags, err = asStringList("ldflags", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["mounts"]; ok {
		if d.Mounts, err = asStringMap("mounts", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["depends"]; ok {
		if d.Depends, err = asStringListMap("depends", v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["native"]; ok {
		if d.Native, err = asNativeMap("native", v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func asString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("descriptor: field %q must be a string", field)
	}
	return s, nil
}

func asStringList(field string, v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("descriptor: field %q must be a list", field)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("descriptor: field %q must be a list of strings", field)
		}
		out = append(out, s)
	}
	return out, nil
}

func asStringMap(field string, v any) (map[string]string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("descriptor: field %q must be a table with string keys", field)
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("descriptor: field %q.%s must be a string", field, k)
		}
		out[k] = s
	}
	return out, nil
}

func asStringListMap(field string, v any) (map[string][]string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("descriptor: field %q must be a table with string keys", field)
	}
	out := make(map[string][]string, len(m))
	for k, val := range m {
		list, err := asStringList(field+"."+k, val)
		if err != nil {
			return nil, err
		}
		out[k] = list
	}
	return out, nil
}

func asNativeMap(field string, v any) (map[string]NativeCall, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("descriptor: field %q must be a table with string keys", field)
	}
	out := make(map[string]NativeCall, len(m))
	for k, val := range m {
		call, ok := val.(NativeCall)
		if !ok {
			return nil, fmt.Errorf("descriptor: field %q.%s must be a factory call", field, k)
		}
		out[k] = call
	}
	return out, nil
}
