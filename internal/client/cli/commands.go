package cli

func (a *App) commands() []command {
	return []command{
		{name: "register", usage: "register", access: accessGuest, run: a.Register},
		{name: "login", usage: "login", access: accessGuest, run: a.Login},
		{name: "verify", usage: "verify [email]", run: a.Verify},
		{name: "resend", usage: "resend [email]             resend the verification code", run: a.Resend},
		{name: "forgot", usage: "forgot                     request a password reset code", access: accessGuest, run: a.Forgot},
		{name: "resend-reset", usage: "resend-reset [email]       resend the password reset code", run: a.ResendReset},
		{name: "reset", usage: "reset [email]              set a new password with the reset code", run: a.Reset},
		{name: "whoami", usage: "whoami", access: accessMember, run: a.WhoAmI},
		{name: "logout", usage: "logout", access: accessMember, run: a.Logout},

		{name: "list", aliases: []string{"l"}, usage: "(l)ist [category]", run: a.List},
		{name: "page", usage: "page <n|next|prev>", run: a.Page},
		{name: "sort", usage: "sort <relevance|name|price-low|price-high>", run: a.Sort},
		{name: "filters", usage: "filters                    show filter options", run: a.Filters},
		{name: "filter", usage: "filter <brand|os|price> <value>", run: a.Filter},
		{name: "apply", usage: "apply <brand|os|price>", run: a.Apply},
		{name: "cancel", usage: "cancel <brand|os|price>", run: a.Cancel},
		{name: "clear", usage: "clear                      drop all filters", run: a.Clear},
		{name: "show", usage: "show <id>", run: a.Show},
		{name: "alert", usage: "alert <id>                 toggle a price alert", run: a.Alert},
		{name: "alerts", usage: "alerts", run: a.Alerts},

		{name: "compare", usage: "compare [id]               open the comparison", run: a.Compare},
		{name: "slot", usage: "slot <1|2>                 choose a slot to fill", run: a.Slot},
		{name: "search", usage: "search <term>", run: a.Search},
		{name: "pick", usage: "pick <id>", run: a.Pick},
		{name: "remove", usage: "remove <1|2>", run: a.Remove},
		{name: "report", usage: "report", run: a.Report},
		{name: "export", usage: "export                     save the report", run: a.Export},
		{name: "share", usage: "share", run: a.Share},
		{name: "done", usage: "done                       close the comparison", run: a.Done},
	}
}
