package jssrc

import "github.com/gosoy/soyjs/jsdsl"

// scope provides a lookup from Soy variable name to the JS name.
// it is pushed and popped upon entering and leaving loop scopes.
type scope struct {
	stack []map[string]string
	gen   *jsdsl.Generator
}

func newScope(gen *jsdsl.Generator) scope {
	return scope{gen: gen}
}

func (s *scope) push() {
	s.stack = append(s.stack, make(map[string]string))
}

func (s *scope) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// makevar generates and returns a new JS name for the given variable name, adds
// that mapping to this scope.
func (s *scope) makevar(varname string) string {
	var genName = s.gen.Name(varname)
	s.stack[len(s.stack)-1][varname] = genName
	return genName
}

func (s *scope) lookup(varname string) string {
	for i := range s.stack {
		val, ok := s.stack[len(s.stack)-i-1][varname]
		if ok {
			return val
		}
	}
	return ""
}

func (s *scope) pushForRange(loopVar string) (lVar, lLimit string) {
	var genName = s.gen.Name(loopVar)
	var limitName = s.gen.Name(loopVar + "Limit")
	s.stack = append(s.stack, map[string]string{
		loopVar:   genName,
		"__limit": limitName,
		"__index": genName,
	})
	return genName, limitName
}

func (s *scope) pushForEach(loopVar string) (lVar, lList, lLen, lIndex string) {
	var (
		genName   = s.gen.Name(loopVar)
		listName  = s.gen.Name(loopVar + "List")
		limitName = s.gen.Name(loopVar + "Limit")
		indexName = s.gen.Name(loopVar + "Index")
	)
	s.stack = append(s.stack, map[string]string{
		loopVar:   genName,
		"__limit": limitName,
		"__index": indexName,
	})
	return genName, listName, limitName, indexName
}

// looplimit returns the JS variable name for the innermost loop limit.
func (s *scope) looplimit() string {
	return s.lookup("__limit")
}

// loopindex returns the JS variable name for the innermost loop index.
func (s *scope) loopindex() string {
	return s.lookup("__index")
}
