package mail

import "github.com/pipeline-crm/leadboard/internal/usecase"

// DigestEmailData is what the digest template renders.
type DigestEmailData struct {
	Date      string
	TotalNew  int
	Reps      []usecase.RepDailyReport
	FollowUps []FollowUpLine
}

type FollowUpLine struct {
	Date    string
	Website string
	Status  string
	Owner   string
}

func newDigestEmailData(d *usecase.Digest) DigestEmailData {
	data := DigestEmailData{Date: d.Date, Reps: d.Report}
	for _, r := range d.Report {
		data.TotalNew += r.LeadCount
	}
	for _, l := range d.FollowUps {
		data.FollowUps = append(data.FollowUps, FollowUpLine{
			Date:    l.FollowUpDate,
			Website: l.Host(),
			Status:  l.Status,
			Owner:   l.AddedByName,
		})
	}
	return data
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
	dialer   Dialer
}
