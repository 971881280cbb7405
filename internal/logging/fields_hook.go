package logging

import "github.com/sirupsen/logrus"

// fieldsHook stamps every entry with the service wide fields, entry fields win.
type fieldsHook struct {
	fields logrus.Fields
}

func newFieldsHook(fields logrus.Fields) *fieldsHook {
	nonEmpty := make(logrus.Fields, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		nonEmpty[k] = v
	}
	return &fieldsHook{fields: nonEmpty}
}

func (h *fieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
