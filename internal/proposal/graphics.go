package proposal

import "fmt"

// GraphicsBid is the canned graphics-team bid; no model call involved, only
// the project title is interpolated.
func GraphicsBid(title string) string {
	if title == "" {
		title = "your project"
	}
	return fmt.Sprintf(`Hello,
We will create Classic Logo for %s, and I am excited to say that we can do this project with perfection.

We have talented graphic design team to design exclusive premium logos and all printing materials. We can create an awesome logo for your business.

Please message me to discuss this.

Check our work : https://www.freelancer.com/u/snehbharat

Here's what I offer:
- With in 24 hrs We will send you 6 logo option from 6 different designer to choose from.
- All artwork will be custom and NO USE of CLIPART
- Unlimited revisions (don't hesitate to request as many as you need)
- All the source files will be provided. (Ai-PSD-PDF-EPS-JPEG-PNG)
- High-resolution quality 100%% Satisfaction Guaranteed. you will own the full copyright of the final design.

Revisions:
A good number of revisions based on your feedback to ensure the design aligns with your expectations.

We look forward to collaborating with you on this project. Please feel free to reach out for any clarifications or to set up a discovery call.
Warm regards,
Team Mactix`, title)
}
