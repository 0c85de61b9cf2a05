package analysis

type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindValidation    Kind = "validation"
	KindProcessing    Kind = "processing"
)

const (
	msgMissingKey  = "未配置 API Key。请在项目根目录创建 .env 文件并写入 GEMINI_API_KEY=你的Key，或在启动命令中设置环境变量。"
	msgEmptyText   = "内容不能为空"
	msgTooLong     = "内容过长，请控制在 %d 字以内"
	msgProcessFail = "处理内容失败，请检查 API Key 或网络连接。"
)

// Error is the only error type Process returns. Message is safe to show to
// users; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrProcessing    = &Error{Kind: KindProcessing}
)

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind) + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can write errors.Is(err, analysis.ErrValidation).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
