// Package gmail is the Gmail adapter of inboxmeet.
//
// Client lists and reads inbox messages for the watcher and saves reply
// drafts. Drafts are never sent; the mailbox owner reviews them in Gmail.
//
// ReplyDrafter adapts a Client to the meeting.Drafter port:
//
//	client, err := gmail.NewClient(ctx, conf, google.NewFileTokenProvider(), "default")
//	if err != nil {
//	    return err
//	}
//	scheduler := meeting.NewScheduler(resolver, negotiator, booker,
//	    meeting.WithDrafter(gmail.NewReplyDrafter(client)))
package gmail
