package appcontext

const (
	EnvCLI Env = iota
	EnvTest
)

type Env int

type Ctx struct {
	Env Env
}

func Declare(env Env) Ctx {
	return Ctx{
		Env: env,
	}
}
