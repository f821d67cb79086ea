/*
Package cli provides command-line helpers shared by the jobscan commands.

Output Formatting:

Commands render results as text, JSON or CSV. Tabular results implement
Table so that the text and CSV formatters can lay them out:

	format, err := cli.ParseOutputFormat(flags.output, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result); err != nil {
		return err
	}

Progress Reporting:

Long exports report progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(total)
	progress.Update(done)
	progress.Finish()

Signal Handling:

SignalContext returns a context cancelled on SIGINT or SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
