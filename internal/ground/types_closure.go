package ground

// objectsOfType returns every object in dom whose declared type equals
// typeName or has typeName as an ancestor in dom.Supertypes.
func objectsOfType(dom Domain, typeName string) []string {
	var out []string
	for obj, t := range dom.Objects {
		if typeCompatible(dom, t, typeName) {
			out = append(out, obj)
		}
	}
	return out
}

// typeCompatible reports whether objType is typeName or a descendant of it
// by walking objType's ancestor chain.
func typeCompatible(dom Domain, objType, typeName string) bool {
	for t := objType; t != ""; t = dom.Supertypes[t] {
		if t == typeName {
			return true
		}
	}
	return false
}
