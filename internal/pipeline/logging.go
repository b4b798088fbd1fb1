package pipeline

import "github.com/sirupsen/logrus"

// fieldHook stamps fields onto every entry of the standard logger, so lines
// logged by backends and the invoker carry the run id too
type fieldHook struct {
	fields logrus.Fields
}

func (h fieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h fieldHook) Fire(e *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}

// withRunFields installs fields on the standard logger until the returned
// func is called
func withRunFields(fields logrus.Fields) (restore func()) {
	std := logrus.StandardLogger()

	// Field hook runs before any existing hook
	hook := fieldHook{fields: fields}
	hooks := make(logrus.LevelHooks)
	for _, level := range hook.Levels() {
		hooks[level] = append([]logrus.Hook{hook}, std.Hooks[level]...)
	}
	prev := std.ReplaceHooks(hooks)

	return func() {
		std.ReplaceHooks(prev)
	}
}
