package core

// Tokenize splits source into tokens.
func Tokenize(source string) ([]token, error) {
	tokenizer := NewTokenizer(source)
	return tokenizer.Tokenize()
}

// Interpret loads source into s and runs the whole program.
func Interpret(s *Script, source string) error {
	if err := s.Load(source); err != nil {
		return err
	}
	return s.Run()
}
