package placeholder

const (
	tokenOpen   = "{{"
	tokenRegexp = `\{\{([^{}]+)\}\}`
)
