package assert

// NotNil panics if value is nil, it guards constructor arguments that are
// programmer errors rather than runtime conditions.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}
