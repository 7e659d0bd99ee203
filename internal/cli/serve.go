package cli

type ServeCmd struct{}

func (c *ServeCmd) Run(ctx *Context) error {
	app, cleanup, err := ctx.App(ctx.Flags)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Run()
}
